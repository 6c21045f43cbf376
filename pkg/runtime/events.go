package runtime

import (
	"strings"
	"sync"
)

const wildcard = "*"

// Event вызов метода API. Для LMSGetValue и LMSSetValue заполнен Element.
type Event struct {
	SessionID string    `json:"session"`
	Method    string    `json:"method"`
	Element   string    `json:"element,omitempty"`
	Value     string    `json:"value,omitempty"`
	Error     ErrorCode `json:"error"`
}

// Name имя события для подписки: LMSSetValue.cmi.core.lesson_status, LMSInitialize
func (e Event) Name() string {
	if e.Element == "" {
		return e.Method
	}
	return e.Method + "." + e.Element
}

// match поддерживает точное имя, имя метода и суффикс .* (LMSSetValue.cmi.*)
func match(pattern string, e Event) bool {
	if pattern == wildcard || pattern == e.Method {
		return true
	}

	name := e.Name()
	if strings.HasSuffix(pattern, "."+wildcard) {
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, wildcard))
	}

	return pattern == name
}

type subscription struct {
	pattern string
	fn      func(Event)
}

type subscribers struct {
	mx   sync.RWMutex
	next int
	subs map[int]subscription
	// порядок подписки сохраняется при вызове
	order []int
}

func (s *subscribers) add(pattern string, fn func(Event)) func() {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.subs == nil {
		s.subs = map[int]subscription{}
	}
	id := s.next
	s.next++
	s.subs[id] = subscription{pattern: pattern, fn: fn}
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mx.Lock()
			defer s.mx.Unlock()

			delete(s.subs, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *subscribers) matching(e Event) (result []func(Event)) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	for _, id := range s.order {
		if sub := s.subs[id]; match(sub.pattern, e) {
			result = append(result, sub.fn)
		}
	}

	return result
}
