package manifest

import (
	"github.com/pkg/errors"
)

var (
	ErrXMLSyntax           = errors.New("manifest is not well-formed xml")
	ErrUnresolvedReference = errors.New("resource reference is not resolved")
	ErrEmptyReference      = errors.New("item has no resource reference")
)

// XMLSyntaxError ошибка разбора текста манифеста.
// Сопоставляется с ErrXMLSyntax через errors.Is.
type XMLSyntaxError struct {
	Err error
}

func (e *XMLSyntaxError) Error() string {
	if e.Err == nil {
		return ErrXMLSyntax.Error()
	}
	return ErrXMLSyntax.Error() + ": " + e.Err.Error()
}

func (e *XMLSyntaxError) Unwrap() error {
	return e.Err
}

func (e *XMLSyntaxError) Is(target error) bool {
	return target == ErrXMLSyntax
}
