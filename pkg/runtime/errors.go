package runtime

import (
	"strconv"
)

// ErrorCode код ошибки API SCORM 1.2
type ErrorCode int

const (
	NoError               ErrorCode = 0
	GeneralException      ErrorCode = 101
	InvalidArgument       ErrorCode = 201
	ElementCannotHaveKids ErrorCode = 202
	ElementNotArray       ErrorCode = 203
	NotInitialized        ErrorCode = 301
	NotImplemented        ErrorCode = 401
	InvalidSetKeyword     ErrorCode = 402
	ElementReadOnly       ErrorCode = 403
	ElementWriteOnly      ErrorCode = 404
	IncorrectDataType     ErrorCode = 405
)

var errorStrings = map[ErrorCode]string{
	NoError:               "No error",
	GeneralException:      "General exception",
	InvalidArgument:       "Invalid argument error",
	ElementCannotHaveKids: "Element cannot have children",
	ElementNotArray:       "Element not an array - cannot have count",
	NotInitialized:        "Not initialized",
	NotImplemented:        "Not implemented error",
	InvalidSetKeyword:     "Invalid set value, element is a keyword",
	ElementReadOnly:       "Element is read only",
	ElementWriteOnly:      "Element is write only",
	IncorrectDataType:     "Incorrect data type",
}

func (c ErrorCode) String() string {
	return strconv.Itoa(int(c))
}

// Message текст ошибки, для неизвестного кода пустая строка
func (c ErrorCode) Message() string {
	return errorStrings[c]
}

// ParseErrorCode разбирает код из аргумента LMSGetErrorString
func ParseErrorCode(s string) (ErrorCode, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	code := ErrorCode(n)
	_, ok := errorStrings[code]

	return code, ok
}
