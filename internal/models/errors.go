package models

import "errors"

// ErrorKind classifies failures at component boundaries
type ErrorKind string

const (
	KindGeneration ErrorKind = "GENERATION"
	KindFontLoad   ErrorKind = "FONT_LOAD"
	KindPrint      ErrorKind = "PRINT"
	KindFileIO     ErrorKind = "FILE_IO"
	KindConfig     ErrorKind = "CONFIG"
)

// Error is the single error type every component converts its failures into
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	prefix := string(e.Kind) + ": " + e.Message
	if e.Cause != nil {
		return prefix + ": " + e.Cause.Error()
	}
	return prefix
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NewGenerationError(message string, cause error) *Error {
	return NewError(KindGeneration, message, cause)
}

func NewFontLoadError(message string, cause error) *Error {
	return NewError(KindFontLoad, message, cause)
}

func NewPrintError(message string, cause error) *Error {
	return NewError(KindPrint, message, cause)
}

func NewFileIOError(message string, cause error) *Error {
	return NewError(KindFileIO, message, cause)
}

// IsKind reports whether any *Error in err's chain has the given kind
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}
