package utils

import (
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnsafePath = errors.New("path escapes package root")

// EscapePathPreservingSlashes экранирует сегменты пути, разделители сохраняются.
// Строка запроса и фрагмент (index.html?page=2#top) переносятся как есть.
func EscapePathPreservingSlashes(p string) string {
	tail := ""
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p, tail = p[:i], p[i:]
	}

	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/") + tail
}

// JoinURLPath склеивает части адреса через один слэш, результат начинается со слэша
func JoinURLPath(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// CleanRelativePath нормализует путь внутри пакета.
// Пути с выходом за корень пакета отклоняются.
func CleanRelativePath(p string) (string, error) {
	p = strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/")
	cleaned := path.Clean(p)
	if cleaned == "." {
		return "", errors.Wrap(ErrUnsafePath, "empty path")
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Wrap(ErrUnsafePath, p)
	}
	return cleaned, nil
}
