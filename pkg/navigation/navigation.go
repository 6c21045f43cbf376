// Package navigation строит дерево навигации плеера по модели курса
package navigation

import (
	"net/url"
	"strings"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/internal/utils"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
)

// DefaultContentPrefix адрес, под которым раздаются файлы пакетов
const DefaultContentPrefix = "/courses_files"

// Entry пункт навигации. Пункт без разрешенного ресурса выключен и не имеет адреса.
type Entry struct {
	Identifier string  `json:"identifier"`
	Title      string  `json:"title,omitempty"`
	URL        string  `json:"url,omitempty"`
	ScormType  string  `json:"scormtype,omitempty"`
	Enabled    bool    `json:"enabled"`
	Visible    bool    `json:"visible"`
	Items      []Entry `json:"items,omitempty"`
}

type Tree struct {
	PackageID    string  `json:"package"`
	Organization string  `json:"organization,omitempty"`
	Title        string  `json:"title,omitempty"`
	Start        string  `json:"start,omitempty"`
	StartItem    string  `json:"startItem,omitempty"`
	Items        []Entry `json:"items"`
}

// ContentURL адрес файла пакета: {base}/{packageID}/{href}.
// base задается путем (/courses_files) или абсолютным адресом (https://cdn.example/courses_files).
func ContentURL(base, packageID, href string) string {
	origin, basePath := splitBase(base)
	return origin + utils.JoinURLPath(basePath, url.PathEscape(packageID), utils.EscapePathPreservingSlashes(href))
}

// ContentPath путь из base, под которым сервис раздает файлы пакетов
func ContentPath(base string) string {
	_, basePath := splitBase(base)
	return strings.TrimSuffix(utils.JoinURLPath(basePath), "/")
}

// splitBase отделяет схему и хост абсолютного адреса от пути
func splitBase(base string) (origin, basePath string) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", base
	}
	origin = (&url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host}).String()

	return origin, u.EscapedPath()
}

// Build дерево навигации по организации по умолчанию
func Build(m *manifest.Manifest, packageID, base string) Tree {
	tree := Tree{
		PackageID: packageID,
		Items:     []Entry{},
	}

	org, ok := m.DefaultOrganization()
	if !ok {
		return tree
	}
	tree.Organization = org.Identifier
	tree.Title = org.Title

	for _, item := range org.Items {
		tree.Items = append(tree.Items, buildEntry(m, item, packageID, base))
	}

	if start, ok := tree.First(); ok {
		tree.Start = start.URL
		tree.StartItem = start.Identifier
	}

	return tree
}

func buildEntry(m *manifest.Manifest, item manifest.Item, packageID, base string) Entry {
	entry := Entry{
		Identifier: item.Identifier,
		Title:      item.Title,
		Visible:    item.Visible(),
	}

	if res, err := m.Resolve(item); err == nil {
		entry.URL = ContentURL(base, packageID, res.Href)
		entry.ScormType = res.ScormType
		entry.Enabled = true
	}

	for _, child := range item.Items {
		entry.Items = append(entry.Items, buildEntry(m, child, packageID, base))
	}

	return entry
}

// First первый включенный пункт при обходе в глубину
func (t Tree) First() (Entry, bool) {
	var found Entry
	ok := !walk(t.Items, func(e Entry) bool {
		if e.Enabled {
			found = e
			return false
		}
		return true
	})

	return found, ok
}

// Find пункт по идентификатору элемента
func (t Tree) Find(identifier string) (Entry, bool) {
	var found Entry
	ok := !walk(t.Items, func(e Entry) bool {
		if e.Identifier == identifier {
			found = e
			return false
		}
		return true
	})

	return found, ok
}

// Flatten включенные пункты в порядке прохождения курса
func (t Tree) Flatten() (result []Entry) {
	walk(t.Items, func(e Entry) bool {
		if e.Enabled {
			result = append(result, e)
		}
		return true
	})

	return result
}

// Next следующий включенный пункт после указанного
func (t Tree) Next(identifier string) (Entry, bool) {
	flat := t.Flatten()
	for i := range flat {
		if flat[i].Identifier == identifier && i+1 < len(flat) {
			return flat[i+1], true
		}
	}

	return Entry{}, false
}

// Prev предыдущий включенный пункт
func (t Tree) Prev(identifier string) (Entry, bool) {
	flat := t.Flatten()
	for i := range flat {
		if flat[i].Identifier == identifier && i > 0 {
			return flat[i-1], true
		}
	}

	return Entry{}, false
}

func walk(entries []Entry, fn func(e Entry) bool) bool {
	for _, e := range entries {
		if !fn(e) {
			return false
		}
		if !walk(e.Items, fn) {
			return false
		}
	}

	return true
}
