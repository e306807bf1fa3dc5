package discovery

import (
	"errors"
	"fmt"
)

// ErrInvalidDuration is returned when a discovery window is shorter than one second
var ErrInvalidDuration = errors.New("discovery duration must be at least one second")

// ErrorType represents the type of discovery error
type ErrorType int

const (
	// ErrTypeNetwork indicates sockets could not be opened or a search failed
	ErrTypeNetwork ErrorType = iota
	// ErrTypeDescription indicates a device description could not be fetched or parsed
	ErrTypeDescription
)

// String returns a human-readable error type name
func (t ErrorType) String() string {
	switch t {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeDescription:
		return "Description Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", t)
	}
}

// Error is a discovery failure with the location it concerns, if any
type Error struct {
	Type     ErrorType
	Location string
	USN      string
	Err      error
}

func (e *Error) Error() string {
	if e.Type == ErrTypeDescription {
		return fmt.Sprintf("failed to fetch device description from %s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newNetworkError(err error) *Error {
	return &Error{Type: ErrTypeNetwork, Err: err}
}

func newDescriptionError(location, usn string, err error) *Error {
	return &Error{Type: ErrTypeDescription, Location: location, USN: usn, Err: err}
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrTypeNetwork
}

// IsDescriptionError checks if an error is a description fetch error
func IsDescriptionError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrTypeDescription
}
