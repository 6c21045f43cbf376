package manifest

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// DefaultHrefPlaceholder значение href ресурса, у которого атрибут не задан
const DefaultHrefPlaceholder = "sin valor"

type options struct {
	hrefPlaceholder string
}

type Option func(o *options)

// WithHrefPlaceholder задает значение для ресурсов без href
func WithHrefPlaceholder(placeholder string) Option {
	return func(o *options) {
		if placeholder != "" {
			o.hrefPlaceholder = placeholder
		}
	}
}

func newOptions(opts []Option) options {
	o := options{hrefPlaceholder: DefaultHrefPlaceholder}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Build строит модель курса по дереву узлов.
// Отсутствующие необязательные поля остаются пустыми, ошибкой это не считается.
func Build(doc *etree.Document, opts ...Option) (*Manifest, error) {
	if doc == nil || doc.Root() == nil {
		return nil, &XMLSyntaxError{Err: errors.New("document has no root element")}
	}
	o := newOptions(opts)
	root := doc.Root()

	return &Manifest{
		Metadata:      buildMetadata(root),
		Organizations: buildOrganizations(root),
		Resources:     buildResources(root, o.hrefPlaceholder),
	}, nil
}

func buildMetadata(root *etree.Element) (m Metadata) {
	node := root.SelectElement("metadata")
	if node == nil {
		return m
	}
	m.Schema = childText(node, "schema")
	m.SchemaVersion = childText(node, "schemaversion")

	return m
}

func buildOrganizations(root *etree.Element) Organizations {
	result := Organizations{Organization: []Organization{}}

	node := root.SelectElement("organizations")
	if node == nil {
		return result
	}
	result.DefaultOrganizationID = node.SelectAttrValue("default", "")

	for _, orgNode := range node.SelectElements("organization") {
		org := Organization{
			Identifier: orgNode.SelectAttrValue("identifier", ""),
			Title:      childText(orgNode, "title"),
			Items:      []Item{},
		}
		for _, itemNode := range orgNode.SelectElements("item") {
			org.Items = append(org.Items, buildItem(itemNode))
		}
		result.Organization = append(result.Organization, org)
	}

	return result
}

// buildItem рекурсия завершается на элементах без вложенных item
func buildItem(node *etree.Element) Item {
	item := Item{
		Identifier:  node.SelectAttrValue("identifier", ""),
		IsVisible:   node.SelectAttrValue("isvisible", ""),
		ResourceRef: node.SelectAttrValue("identifierref", ""),
		Title:       childText(node, "title"),
	}
	for _, child := range node.SelectElements("item") {
		item.Items = append(item.Items, buildItem(child))
	}

	return item
}

func buildResources(root *etree.Element, placeholder string) Resources {
	result := Resources{Resource: []Resource{}}

	node := root.SelectElement("resources")
	if node == nil {
		return result
	}

	for _, resNode := range node.SelectElements("resource") {
		href := resNode.SelectAttrValue("href", "")
		if href == "" {
			href = placeholder
		}
		result.Resource = append(result.Resource, Resource{
			Identifier: resNode.SelectAttrValue("identifier", ""),
			Type:       resNode.SelectAttrValue("type", ""),
			Href:       href,
			ScormType:  scormType(resNode),
		})
	}

	return result
}

// scormType атрибут adlcp:scormtype (SCORM 1.2) или adlcp:scormType (SCORM 2004)
func scormType(node *etree.Element) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, "scormtype") {
			return attr.Value
		}
	}

	return ""
}

// childText текст дочернего элемента как есть, без обрезки пробелов
func childText(node *etree.Element, tag string) string {
	child := node.SelectElement(tag)
	if child == nil {
		return ""
	}

	return child.Text()
}
