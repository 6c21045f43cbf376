package runtime

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// элементы, которые живут только в рамках одной попытки
var transient = map[string]bool{
	"cmi.core.session_time": true,
	"cmi.core.entry":        true,
}

// Snapshot модель данных сессии в виде {"cmi": {...}}.
// Массивы модели (objectives, interactions) выводятся как JSON-массивы.
func (s *Session) Snapshot() ([]byte, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	return s.snapshot()
}

func (s *Session) snapshot() ([]byte, error) {
	root := map[string]interface{}{}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		parts := strings.Split(k, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			next, ok := node[part].(map[string]interface{})
			if !ok {
				next = map[string]interface{}{}
				node[part] = next
			}
			node = next
		}
		node[parts[len(parts)-1]] = s.data[k]
	}

	return json.Marshal(toArrays(root))
}

// toArrays объекты с числовыми ключами 0..n-1 превращаются в массивы
func toArrays(node interface{}) interface{} {
	m, ok := node.(map[string]interface{})
	if !ok {
		return node
	}
	for k, v := range m {
		m[k] = toArrays(v)
	}

	list := make([]interface{}, len(m))
	for k, v := range m {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= len(m) {
			return m
		}
		list[idx] = v
	}
	if len(list) == 0 {
		return m
	}

	return list
}

// Restore загружает сохраненный прогресс. Неизвестные элементы пропускаются.
// Если прошлая попытка завершилась с exit=suspend, cmi.core.entry становится resume.
func (s *Session) Restore(snapshot []byte) error {
	var root map[string]interface{}
	if err := json.Unmarshal(snapshot, &root); err != nil {
		return errors.Wrap(err, "decode session snapshot")
	}

	flat := map[string]string{}
	flatten("", root, flat)

	s.mx.Lock()
	defer s.mx.Unlock()

	data := defaults()
	for k, v := range s.data {
		if strings.HasPrefix(k, "cmi.core.student_") || k == "cmi.launch_data" {
			data[k] = v
		}
	}
	counts := map[string]int{}

	names := make([]string, 0, len(flat))
	for k := range flat {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := elements[pattern(name)]; !ok || transient[name] {
			continue
		}
		data[name] = flat[name]
		eachIndex(name, func(array string, idx int) {
			if idx+1 > counts[array] {
				counts[array] = idx + 1
			}
		})
	}

	data["cmi.core.entry"] = ""
	if flat["cmi.core.exit"] == "suspend" {
		data["cmi.core.entry"] = "resume"
	}
	data["cmi.core.exit"] = ""

	s.data = data
	s.counts = counts
	s.dirty = false

	return nil
}

func flatten(prefix string, node interface{}, out map[string]string) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}

	switch v := node.(type) {
	case map[string]interface{}:
		for k, child := range v {
			flatten(join(k), child, out)
		}
	case []interface{}:
		for i, child := range v {
			flatten(join(strconv.Itoa(i)), child, out)
		}
	case string:
		out[prefix] = v
	case float64:
		out[prefix] = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(v)
	}
}
