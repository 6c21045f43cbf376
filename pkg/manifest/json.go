package manifest

import (
	"encoding/json"
)

// Canonical компактное JSON-представление модели.
// Порядок полей фиксирован, пустой список items у элемента не выводится.
func Canonical(m *Manifest) ([]byte, error) {
	return json.Marshal(m)
}

// списки организаций и ресурсов выводятся всегда, даже пустые

func (o Organizations) MarshalJSON() ([]byte, error) {
	type plain Organizations
	if o.Organization == nil {
		o.Organization = []Organization{}
	}

	return json.Marshal(plain(o))
}

func (o Organization) MarshalJSON() ([]byte, error) {
	type plain Organization
	if o.Items == nil {
		o.Items = []Item{}
	}

	return json.Marshal(plain(o))
}

func (r Resources) MarshalJSON() ([]byte, error) {
	type plain Resources
	if r.Resource == nil {
		r.Resource = []Resource{}
	}

	return json.Marshal(plain(r))
}
