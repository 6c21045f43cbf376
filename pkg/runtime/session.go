// Package runtime сессия учащегося с API SCORM 1.2 (LMSInitialize, LMSGetValue, ...).
// Сессия принадлежит вызывающему коду, глобального состояния нет.
package runtime

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	apiTrue  = "true"
	apiFalse = "false"
)

type state int

const (
	notInitialized state = iota
	running
	finished
)

// Progress сводка по сессии для плеера
type Progress struct {
	LessonStatus   string `json:"lessonStatus"`
	LessonLocation string `json:"lessonLocation,omitempty"`
	ScoreRaw       string `json:"scoreRaw,omitempty"`
	SessionTime    string `json:"sessionTime,omitempty"`
	TotalTime      string `json:"totalTime"`
	Entry          string `json:"entry"`
}

type Session struct {
	id        string
	packageID string
	store     Store

	mx         sync.Mutex
	state      state
	data       map[string]string
	counts     map[string]int
	lastError  ErrorCode
	diagnostic string
	dirty      bool
	updated    time.Time

	subs subscribers
}

type Option func(s *Session)

// WithStore хранилище, куда сохраняется прогресс при LMSCommit и LMSFinish
func WithStore(store Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

func WithLearner(id, name string) Option {
	return func(s *Session) {
		s.data["cmi.core.student_id"] = id
		s.data["cmi.core.student_name"] = name
	}
}

// WithLaunchData значение cmi.launch_data (adlcp:datafromlms)
func WithLaunchData(data string) Option {
	return func(s *Session) {
		s.data["cmi.launch_data"] = data
	}
}

func NewSession(id, packageID string, opts ...Option) *Session {
	s := &Session{
		id:        id,
		packageID: packageID,
		data:      defaults(),
		counts:    map[string]int{},
		updated:   time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func defaults() map[string]string {
	return map[string]string{
		"cmi.core.student_id":                "",
		"cmi.core.student_name":              "",
		"cmi.core.lesson_location":           "",
		"cmi.core.credit":                    "credit",
		"cmi.core.lesson_status":             "not attempted",
		"cmi.core.entry":                     "ab-initio",
		"cmi.core.score.raw":                 "",
		"cmi.core.score.min":                 "",
		"cmi.core.score.max":                 "",
		"cmi.core.total_time":                zeroTimespan,
		"cmi.core.lesson_mode":               "normal",
		"cmi.core.exit":                      "",
		"cmi.core.session_time":              "",
		"cmi.suspend_data":                   "",
		"cmi.launch_data":                    "",
		"cmi.comments":                       "",
		"cmi.comments_from_lms":              "",
		"cmi.student_data.mastery_score":     "",
		"cmi.student_data.max_time_allowed":  "",
		"cmi.student_data.time_limit_action": "",
		"cmi.student_preference.audio":       "0",
		"cmi.student_preference.language":    "",
		"cmi.student_preference.speed":       "0",
		"cmi.student_preference.text":        "0",
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) PackageID() string {
	return s.packageID
}

// Updated время последнего вызова API
func (s *Session) Updated() time.Time {
	s.mx.Lock()
	defer s.mx.Unlock()

	return s.updated
}

func (s *Session) Finished() bool {
	s.mx.Lock()
	defer s.mx.Unlock()

	return s.state == finished
}

// On подписка на события API. Возвращает функцию отписки.
// Обработчики вызываются синхронно после завершения вызова, им можно обращаться к сессии.
func (s *Session) On(pattern string, fn func(Event)) func() {
	return s.subs.add(pattern, fn)
}

func (s *Session) LMSInitialize(param string) string {
	return s.initialize(param)
}

func (s *Session) LMSFinish(param string) string {
	return s.finish(context.Background(), param)
}

func (s *Session) LMSGetValue(element string) string {
	return s.getValue(element)
}

func (s *Session) LMSSetValue(element, value string) string {
	return s.setValue(element, value)
}

func (s *Session) LMSCommit(param string) string {
	return s.commit(context.Background(), param)
}

func (s *Session) LMSGetLastError() string {
	s.mx.Lock()
	code := s.lastError
	s.mx.Unlock()

	s.emit(Event{Method: "LMSGetLastError", Value: code.String()})

	return code.String()
}

func (s *Session) LMSGetErrorString(code string) string {
	c, _ := ParseErrorCode(code)
	s.emit(Event{Method: "LMSGetErrorString", Value: code})

	return c.Message()
}

// LMSGetDiagnostic подробности последней ошибки. Пустой аргумент означает последнюю ошибку.
func (s *Session) LMSGetDiagnostic(code string) string {
	s.mx.Lock()
	last, diagnostic := s.lastError, s.diagnostic
	s.mx.Unlock()

	s.emit(Event{Method: "LMSGetDiagnostic", Value: code})

	if code == "" || code == last.String() {
		if diagnostic != "" {
			return diagnostic
		}
		return last.Message()
	}
	c, _ := ParseErrorCode(code)

	return c.Message()
}

// Call вызов метода API по имени, так его вызывает транспорт
func (s *Session) Call(ctx context.Context, method string, args ...string) (string, ErrorCode) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	var result string
	switch method {
	case "LMSInitialize":
		result = s.initialize(arg(0))
	case "LMSFinish":
		result = s.finish(ctx, arg(0))
	case "LMSGetValue":
		result = s.getValue(arg(0))
	case "LMSSetValue":
		result = s.setValue(arg(0), arg(1))
	case "LMSCommit":
		result = s.commit(ctx, arg(0))
	case "LMSGetLastError":
		return s.LMSGetLastError(), NoError
	case "LMSGetErrorString":
		return s.LMSGetErrorString(arg(0)), NoError
	case "LMSGetDiagnostic":
		return s.LMSGetDiagnostic(arg(0)), NoError
	default:
		return "", NotImplemented
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	return result, s.lastError
}

// Progress текущие значения основных элементов модели
func (s *Session) Progress() Progress {
	s.mx.Lock()
	defer s.mx.Unlock()

	return Progress{
		LessonStatus:   s.data["cmi.core.lesson_status"],
		LessonLocation: s.data["cmi.core.lesson_location"],
		ScoreRaw:       s.data["cmi.core.score.raw"],
		SessionTime:    s.data["cmi.core.session_time"],
		TotalTime:      s.data["cmi.core.total_time"],
		Entry:          s.data["cmi.core.entry"],
	}
}

func (s *Session) initialize(param string) string {
	s.mx.Lock()
	var code ErrorCode
	switch {
	case param != "":
		code = s.fail(InvalidArgument, "LMSInitialize expects an empty string")
	case s.state == running:
		code = s.fail(GeneralException, "session is already initialized")
	case s.state == finished:
		code = s.fail(GeneralException, "session is already finished")
	default:
		s.state = running
		code = s.ok()
	}
	s.mx.Unlock()

	s.emit(Event{Method: "LMSInitialize", Error: code})

	return boolResult(code)
}

func (s *Session) finish(ctx context.Context, param string) string {
	s.mx.Lock()
	var code ErrorCode
	switch {
	case param != "":
		code = s.fail(InvalidArgument, "LMSFinish expects an empty string")
	case s.state != running:
		code = s.fail(NotInitialized, "")
	default:
		s.data["cmi.core.total_time"] = addTimespan(s.data["cmi.core.total_time"], s.data["cmi.core.session_time"])
		if s.data["cmi.core.lesson_status"] == "not attempted" {
			s.data["cmi.core.lesson_status"] = "completed"
		}
		s.state = finished
		s.dirty = true
		code = s.persist(ctx)
	}
	s.mx.Unlock()

	s.emit(Event{Method: "LMSFinish", Error: code})

	return boolResult(code)
}

func (s *Session) commit(ctx context.Context, param string) string {
	s.mx.Lock()
	var code ErrorCode
	switch {
	case param != "":
		code = s.fail(InvalidArgument, "LMSCommit expects an empty string")
	case s.state != running:
		code = s.fail(NotInitialized, "")
	default:
		code = s.persist(ctx)
	}
	s.mx.Unlock()

	s.emit(Event{Method: "LMSCommit", Error: code})

	return boolResult(code)
}

func (s *Session) getValue(name string) string {
	s.mx.Lock()
	value, code := s.get(name)
	s.mx.Unlock()

	s.emit(Event{Method: "LMSGetValue", Element: name, Value: value, Error: code})

	return value
}

func (s *Session) setValue(name, value string) string {
	s.mx.Lock()
	code := s.set(name, value)
	s.mx.Unlock()

	s.emit(Event{Method: "LMSSetValue", Element: name, Value: value, Error: code})

	return boolResult(code)
}

func (s *Session) get(name string) (string, ErrorCode) {
	if s.state != running {
		return "", s.fail(NotInitialized, "")
	}
	if name == "" {
		return "", s.fail(InvalidArgument, "element name is empty")
	}

	if base, ok := strings.CutSuffix(name, "._children"); ok {
		p := pattern(base)
		if list, ok := children[p]; ok {
			return list, s.ok()
		}
		if list, ok := arrays[p]; ok {
			return list, s.ok()
		}
		if s.known(p) {
			return "", s.fail(ElementCannotHaveKids, name)
		}
		return "", s.fail(InvalidArgument, name)
	}

	if base, ok := strings.CutSuffix(name, "._count"); ok {
		p := pattern(base)
		if _, ok := arrays[p]; ok {
			return strconv.Itoa(s.counts[base]), s.ok()
		}
		if s.known(p) {
			return "", s.fail(ElementNotArray, name)
		}
		return "", s.fail(InvalidArgument, name)
	}

	el, ok := elements[pattern(name)]
	if !ok {
		return "", s.fail(InvalidArgument, name)
	}
	if el.access == writeOnly {
		return "", s.fail(ElementWriteOnly, name)
	}
	if !s.inRange(name) {
		return "", s.fail(InvalidArgument, "array index out of range: "+name)
	}

	return s.data[name], s.ok()
}

func (s *Session) set(name, value string) ErrorCode {
	if s.state != running {
		return s.fail(NotInitialized, "")
	}
	if strings.HasSuffix(name, "._children") || strings.HasSuffix(name, "._count") || strings.HasSuffix(name, "._version") {
		return s.fail(InvalidSetKeyword, name)
	}

	el, ok := elements[pattern(name)]
	if !ok {
		return s.fail(InvalidArgument, name)
	}
	if el.access == readOnly {
		return s.fail(ElementReadOnly, name)
	}
	if el.validate != nil && !el.validate(value) {
		return s.fail(IncorrectDataType, name+"="+value)
	}
	if !s.grow(name) {
		return s.fail(InvalidArgument, "array index out of range: "+name)
	}

	s.data[name] = value
	s.dirty = true

	return s.ok()
}

// known элемент или группа элементов модели данных
func (s *Session) known(p string) bool {
	if _, ok := elements[p]; ok {
		return true
	}
	for el := range elements {
		if strings.HasPrefix(el, p+".") {
			return true
		}
	}

	return false
}

// inRange все индексы пути указывают на существующие записи массивов
func (s *Session) inRange(name string) bool {
	ok := true
	eachIndex(name, func(array string, idx int) {
		if idx >= s.counts[array] {
			ok = false
		}
	})

	return ok
}

// grow новая запись массива допускается только сразу за последней
func (s *Session) grow(name string) bool {
	ok := true
	eachIndex(name, func(array string, idx int) {
		if idx > s.counts[array] {
			ok = false
		}
	})
	if !ok {
		return false
	}
	eachIndex(name, func(array string, idx int) {
		if idx == s.counts[array] {
			s.counts[array]++
		}
	})

	return true
}

// eachIndex вызывает fn для каждого индекса в пути: cmi.interactions.0.objectives.1.id
// дает (cmi.interactions, 0) и (cmi.interactions.0.objectives, 1)
func eachIndex(name string, fn func(array string, idx int)) {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if idx, ok := arrayIndex(part); ok && i > 0 {
			fn(strings.Join(parts[:i], "."), idx)
		}
	}
}

func (s *Session) persist(ctx context.Context) ErrorCode {
	if s.store == nil || !s.dirty {
		return s.ok()
	}
	snapshot, err := s.snapshot()
	if err == nil {
		err = s.store.Save(ctx, s.packageID, s.id, snapshot)
	}
	if err != nil {
		return s.fail(GeneralException, errors.Wrap(err, "save progress").Error())
	}
	s.dirty = false

	return s.ok()
}

func (s *Session) ok() ErrorCode {
	s.lastError = NoError
	s.diagnostic = ""
	s.updated = time.Now()

	return NoError
}

func (s *Session) fail(code ErrorCode, diagnostic string) ErrorCode {
	s.lastError = code
	s.diagnostic = diagnostic
	s.updated = time.Now()

	return code
}

func (s *Session) emit(e Event) {
	e.SessionID = s.id
	for _, fn := range s.subs.matching(e) {
		fn(e)
	}
}

func boolResult(code ErrorCode) string {
	if code == NoError {
		return apiTrue
	}
	return apiFalse
}
