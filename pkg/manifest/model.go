// Package manifest разбирает IMS-манифест пакета SCORM (imsmanifest.xml)
// в модель курса: метаданные, дерево организаций и таблицу ресурсов.
package manifest

// Manifest модель курса, построенная по одному документу.
// После построения не изменяется.
type Manifest struct {
	Metadata      Metadata      `json:"metadata" yaml:"metadata"`
	Organizations Organizations `json:"organizations" yaml:"organizations"`
	Resources     Resources     `json:"resources" yaml:"resources"`
}

type Metadata struct {
	Schema        string `json:"schema,omitempty" yaml:"schema,omitempty"`
	SchemaVersion string `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
}

// Organizations организации в порядке документа
type Organizations struct {
	DefaultOrganizationID string         `json:"defaultOrganizationId,omitempty" yaml:"defaultOrganizationId,omitempty"`
	Organization          []Organization `json:"organization" yaml:"organization"`
}

type Organization struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Items      []Item `json:"items" yaml:"items"`
}

// Item узел дерева навигации. Для группирующих элементов ResourceRef пустой.
type Item struct {
	Identifier  string `json:"identifier" yaml:"identifier"`
	IsVisible   string `json:"isvisible,omitempty" yaml:"isvisible,omitempty"`
	ResourceRef string `json:"identifierref,omitempty" yaml:"identifierref,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Items       []Item `json:"items,omitempty" yaml:"items,omitempty"`
}

type Resources struct {
	Resource []Resource `json:"resource" yaml:"resource"`
}

type Resource struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Href       string `json:"href" yaml:"href"`
	ScormType  string `json:"scormtype,omitempty" yaml:"scormtype,omitempty"`
}

// Visible false только при явном isvisible="false"
func (i Item) Visible() bool {
	return i.IsVisible != "false"
}

// Walk обходит лес элементов в глубину в порядке документа.
// Обход прекращается, если fn вернула false.
func Walk(items []Item, fn func(item Item, depth int) bool) bool {
	return walk(items, 0, fn)
}

func walk(items []Item, depth int, fn func(item Item, depth int) bool) bool {
	for _, item := range items {
		if !fn(item, depth) {
			return false
		}
		if !walk(item.Items, depth+1, fn) {
			return false
		}
	}

	return true
}
