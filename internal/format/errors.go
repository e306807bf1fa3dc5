package format

import (
	"errors"
	"fmt"
)

// ErrFormatNotSupported is returned when a value is asked for a style it cannot render
var ErrFormatNotSupported = errors.New("format not supported")

// ErrorType represents the category of a template failure
type ErrorType int

const (
	// ErrTypeSyntax indicates malformed braces or a malformed spec
	ErrTypeSyntax ErrorType = iota
	// ErrTypeUnknownName indicates a placeholder naming no known value
	ErrTypeUnknownName
	// ErrTypeUnsupported indicates a style the value cannot render (hex, binary...)
	ErrTypeUnsupported
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeSyntax:
		return "Syntax Error"
	case ErrTypeUnknownName:
		return "Unknown Placeholder"
	case ErrTypeUnsupported:
		return "Unsupported Format"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error describes where and why a template failed
type Error struct {
	Type    ErrorType // Category of failure
	Offset  int       // Character offset of the failure in the template
	Name    string    // Placeholder name (if applicable)
	Message string    // Human-readable detail
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid format string at position %d: %s (caused by: %v)", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid format string at position %d: %s", e.Offset, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

func newSyntaxError(offset int, message string) *Error {
	return &Error{
		Type:    ErrTypeSyntax,
		Offset:  offset,
		Message: message,
	}
}

func newUnknownNameError(offset int, name string) *Error {
	return &Error{
		Type:    ErrTypeUnknownName,
		Offset:  offset,
		Name:    name,
		Message: fmt.Sprintf("unknown placeholder %q", name),
	}
}

func newUnsupportedError(offset int, name string, err error) *Error {
	return &Error{
		Type:    ErrTypeUnsupported,
		Offset:  offset,
		Name:    name,
		Message: fmt.Sprintf("placeholder %q requests an unsupported format", name),
		Err:     err,
	}
}

// IsSyntaxError checks if an error is a template syntax error
func IsSyntaxError(err error) bool {
	return hasType(err, ErrTypeSyntax)
}

// IsUnknownNameError checks if an error is an unknown placeholder error
func IsUnknownNameError(err error) bool {
	return hasType(err, ErrTypeUnknownName)
}

// IsUnsupportedError checks if an error is an unsupported format error
func IsUnsupportedError(err error) bool {
	return hasType(err, ErrTypeUnsupported)
}

func hasType(err error, typ ErrorType) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Type == typ
	}
	return false
}
