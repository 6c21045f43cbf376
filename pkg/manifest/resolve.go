package manifest

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Find первый ресурс с указанным идентификатором.
// При дубликатах выигрывает первый в порядке документа.
func (r Resources) Find(identifier string) (Resource, bool) {
	return lo.Find(r.Resource, func(res Resource) bool {
		return res.Identifier == identifier
	})
}

// Find первая организация с указанным идентификатором
func (o Organizations) Find(identifier string) (Organization, bool) {
	return lo.Find(o.Organization, func(org Organization) bool {
		return org.Identifier == identifier
	})
}

// DefaultOrganization организация из атрибута default.
// Если атрибут пустой или ссылается в никуда, берется первая организация.
func (m *Manifest) DefaultOrganization() (Organization, bool) {
	if id := m.Organizations.DefaultOrganizationID; id != "" {
		if org, ok := m.Organizations.Find(id); ok {
			return org, true
		}
	}

	return lo.First(m.Organizations.Organization)
}

// FindItem ищет элемент во всех организациях (первое совпадение в глубину)
func (m *Manifest) FindItem(identifier string) (result Item, found bool) {
	for _, org := range m.Organizations.Organization {
		Walk(org.Items, func(item Item, _ int) bool {
			if item.Identifier == identifier {
				result, found = item, true
				return false
			}
			return true
		})
		if found {
			return result, true
		}
	}

	return result, false
}

// Resolve ресурс, на который ссылается элемент.
// Ненайденная ссылка всегда ошибка, ресурс по умолчанию не подставляется.
func (m *Manifest) Resolve(item Item) (Resource, error) {
	if item.ResourceRef == "" {
		return Resource{}, errors.Wrapf(ErrEmptyReference, "item %q", item.Identifier)
	}

	res, ok := m.Resources.Find(item.ResourceRef)
	if !ok {
		return Resource{}, errors.Wrapf(ErrUnresolvedReference, "item %q refers to %q", item.Identifier, item.ResourceRef)
	}

	return res, nil
}
