package manifest

import (
	"fmt"

	"github.com/samber/lo"
)

type IssueKind string

const (
	IssueDuplicateIdentifier IssueKind = "duplicate_identifier"
	IssueUnresolvedReference IssueKind = "unresolved_reference"
	IssueUnknownDefault      IssueKind = "unknown_default_organization"
	IssuePlaceholderHref     IssueKind = "placeholder_href"
)

// Issue замечание к манифесту. На модель не влияет.
type Issue struct {
	Kind       IssueKind `json:"kind"`
	Entity     string    `json:"entity"`
	Identifier string    `json:"identifier"`
	Detail     string    `json:"detail,omitempty"`
}

func (i Issue) String() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %s %q", i.Kind, i.Entity, i.Identifier)
	}
	return fmt.Sprintf("%s: %s %q (%s)", i.Kind, i.Entity, i.Identifier, i.Detail)
}

// Inspect собирает замечания по манифесту: дубликаты идентификаторов,
// неразрешенные ссылки, неизвестная организация по умолчанию, ресурсы без href.
func Inspect(m *Manifest, opts ...Option) (issues []Issue) {
	o := newOptions(opts)

	orgIDs := lo.Map(m.Organizations.Organization, func(org Organization, _ int) string {
		return org.Identifier
	})
	issues = append(issues, duplicates("organization", orgIDs)...)

	var itemIDs []string
	for _, org := range m.Organizations.Organization {
		Walk(org.Items, func(item Item, _ int) bool {
			itemIDs = append(itemIDs, item.Identifier)
			if item.ResourceRef == "" {
				return true
			}
			if _, ok := m.Resources.Find(item.ResourceRef); !ok {
				issues = append(issues, Issue{
					Kind:       IssueUnresolvedReference,
					Entity:     "item",
					Identifier: item.Identifier,
					Detail:     "identifierref " + item.ResourceRef,
				})
			}
			return true
		})
	}
	issues = append(issues, duplicates("item", itemIDs)...)

	resIDs := lo.Map(m.Resources.Resource, func(res Resource, _ int) string {
		return res.Identifier
	})
	issues = append(issues, duplicates("resource", resIDs)...)

	if id := m.Organizations.DefaultOrganizationID; id != "" {
		if _, ok := m.Organizations.Find(id); !ok {
			issues = append(issues, Issue{
				Kind:       IssueUnknownDefault,
				Entity:     "organizations",
				Identifier: id,
			})
		}
	}

	for _, res := range m.Resources.Resource {
		if res.Href == o.hrefPlaceholder {
			issues = append(issues, Issue{
				Kind:       IssuePlaceholderHref,
				Entity:     "resource",
				Identifier: res.Identifier,
			})
		}
	}

	return issues
}

func duplicates(entity string, ids []string) []Issue {
	return lo.Map(lo.FindDuplicates(ids), func(id string, _ int) Issue {
		return Issue{
			Kind:       IssueDuplicateIdentifier,
			Entity:     entity,
			Identifier: id,
			Detail:     fmt.Sprintf("%d occurrences", lo.Count(ids, id)),
		}
	})
}
