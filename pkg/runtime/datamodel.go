package runtime

import (
	"regexp"
	"strconv"
	"strings"
)

type access int

const (
	readOnly access = iota + 1
	writeOnly
	readWrite
)

type element struct {
	access   access
	validate func(value string) bool
}

// массивы модели данных и их дочерние элементы
var arrays = map[string]string{
	"cmi.objectives":                       "id,score,status",
	"cmi.interactions":                     "id,objectives,time,type,correct_responses,weighting,student_response,result,latency",
	"cmi.interactions.n.objectives":        "id",
	"cmi.interactions.n.correct_responses": "pattern",
}

// элементы с ключевым словом _children
var children = map[string]string{
	"cmi.core":               "student_id,student_name,lesson_location,credit,lesson_status,entry,score,total_time,lesson_mode,exit,session_time",
	"cmi.core.score":         "raw,min,max",
	"cmi.objectives.n.score": "raw,min,max",
	"cmi.student_data":       "mastery_score,max_time_allowed,time_limit_action",
	"cmi.student_preference": "audio,language,speed,text",
}

var elements = map[string]element{
	"cmi.core.student_id":      {access: readOnly},
	"cmi.core.student_name":    {access: readOnly},
	"cmi.core.lesson_location": {access: readWrite, validate: maxLen(255)},
	"cmi.core.credit":          {access: readOnly},
	"cmi.core.lesson_status":   {access: readWrite, validate: oneOf("passed", "completed", "failed", "incomplete", "browsed")},
	"cmi.core.entry":           {access: readOnly},
	"cmi.core.score.raw":       {access: readWrite, validate: score},
	"cmi.core.score.min":       {access: readWrite, validate: score},
	"cmi.core.score.max":       {access: readWrite, validate: score},
	"cmi.core.total_time":      {access: readOnly},
	"cmi.core.lesson_mode":     {access: readOnly},
	"cmi.core.exit":            {access: writeOnly, validate: oneOf("time-out", "suspend", "logout", "")},
	"cmi.core.session_time":    {access: writeOnly, validate: timespan},

	"cmi.suspend_data":      {access: readWrite, validate: maxLen(4096)},
	"cmi.launch_data":       {access: readOnly},
	"cmi.comments":          {access: readWrite, validate: maxLen(4096)},
	"cmi.comments_from_lms": {access: readOnly},

	"cmi.objectives.n.id":        {access: readWrite, validate: identifier},
	"cmi.objectives.n.score.raw": {access: readWrite, validate: score},
	"cmi.objectives.n.score.min": {access: readWrite, validate: score},
	"cmi.objectives.n.score.max": {access: readWrite, validate: score},
	"cmi.objectives.n.status":    {access: readWrite, validate: oneOf("passed", "completed", "failed", "incomplete", "browsed", "not attempted")},

	"cmi.student_data.mastery_score":     {access: readOnly},
	"cmi.student_data.max_time_allowed":  {access: readOnly},
	"cmi.student_data.time_limit_action": {access: readOnly},

	"cmi.student_preference.audio":    {access: readWrite, validate: intRange(-1, 100)},
	"cmi.student_preference.language": {access: readWrite, validate: maxLen(255)},
	"cmi.student_preference.speed":    {access: readWrite, validate: intRange(-100, 100)},
	"cmi.student_preference.text":     {access: readWrite, validate: intRange(-1, 1)},

	"cmi.interactions.n.id":                          {access: writeOnly, validate: identifier},
	"cmi.interactions.n.objectives.n.id":             {access: writeOnly, validate: identifier},
	"cmi.interactions.n.time":                        {access: writeOnly, validate: timeOfDay},
	"cmi.interactions.n.type":                        {access: writeOnly, validate: oneOf("true-false", "choice", "fill-in", "matching", "performance", "sequencing", "likert", "numeric")},
	"cmi.interactions.n.correct_responses.n.pattern": {access: writeOnly, validate: maxLen(255)},
	"cmi.interactions.n.weighting":                   {access: writeOnly, validate: decimal},
	"cmi.interactions.n.student_response":            {access: writeOnly, validate: maxLen(255)},
	"cmi.interactions.n.result":                      {access: writeOnly, validate: result},
	"cmi.interactions.n.latency":                     {access: writeOnly, validate: timespan},
}

var (
	timespanRe   = regexp.MustCompile(`^\d{2,4}:\d{2}:\d{2}(\.\d{1,2})?$`)
	timeOfDayRe  = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d{1,2})?$`)
	identifierRe = regexp.MustCompile(`^\S{1,255}$`)
)

// pattern заменяет индексы массивов на n: cmi.objectives.0.id -> cmi.objectives.n.id
func pattern(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if _, ok := arrayIndex(part); ok {
			parts[i] = "n"
		}
	}

	return strings.Join(parts, ".")
}

// arrayIndex индекс массива записан неотрицательным числом без знака и ведущих нулей
func arrayIndex(part string) (int, bool) {
	idx, err := strconv.Atoi(part)
	if err != nil || idx < 0 || strconv.Itoa(idx) != part {
		return 0, false
	}

	return idx, true
}

func maxLen(n int) func(string) bool {
	return func(v string) bool {
		return len(v) <= n
	}
}

func oneOf(values ...string) func(string) bool {
	return func(v string) bool {
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

func intRange(min, max int) func(string) bool {
	return func(v string) bool {
		n, err := strconv.Atoi(v)
		return err == nil && n >= min && n <= max
	}
}

func decimal(v string) bool {
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// score пустая строка или число от 0 до 100
func score(v string) bool {
	if v == "" {
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f >= 0 && f <= 100
}

func result(v string) bool {
	return oneOf("correct", "wrong", "unanticipated", "neutral")(v) || decimal(v)
}

func timespan(v string) bool {
	return timespanRe.MatchString(v)
}

func timeOfDay(v string) bool {
	return timeOfDayRe.MatchString(v)
}

func identifier(v string) bool {
	return identifierRe.MatchString(v)
}
