package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies conversion failures.
type ErrorKind string

const (
	KindLoad       ErrorKind = "LoadError"
	KindRender     ErrorKind = "RenderError"
	KindExtraction ErrorKind = "ExtractionError"
	KindPackaging  ErrorKind = "PackagingError"
	KindValidation ErrorKind = "ValidationError"
	KindConfig     ErrorKind = "ConfigError"
	KindCancelled  ErrorKind = "CancelledError"
	KindIO         ErrorKind = "IOError"
)

// Error is a classified error carrying an optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: KindLoad}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewError creates a new classified error
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func LoadError(message string, err error) *Error {
	return NewError(KindLoad, message, err)
}

func RenderError(message string, err error) *Error {
	return NewError(KindRender, message, err)
}

func ExtractionError(message string, err error) *Error {
	return NewError(KindExtraction, message, err)
}

func PackagingError(message string, err error) *Error {
	return NewError(KindPackaging, message, err)
}

func ValidationError(message string, err error) *Error {
	return NewError(KindValidation, message, err)
}

func ConfigError(message string, err error) *Error {
	return NewError(KindConfig, message, err)
}

func CancelledError(message string, err error) *Error {
	return NewError(KindCancelled, message, err)
}

func IOError(message string, err error) *Error {
	return NewError(KindIO, message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// StatusMessage renders err as the single human-readable status line shown to the user.
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if !errors.As(err, &de) {
		return "Error converting file: " + err.Error()
	}
	if de.Err != nil {
		return fmt.Sprintf("Error converting file: %s: %s: %v", de.Kind, de.Message, de.Err)
	}
	return fmt.Sprintf("Error converting file: %s: %s", de.Kind, de.Message)
}
