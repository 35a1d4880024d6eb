package services

import (
	"errors"
	"strings"
)

var (
	// ErrTransport marks network, HTTP status, and malformed response failures.
	ErrTransport = errors.New("transport error")
	// ErrRemoteOperation marks a device response that reported success=false.
	ErrRemoteOperation = errors.New("remote operation failed")
	// ErrValidation marks client-side guards that block a request.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks invalid settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups of channels the device did not report.
	ErrNotFound = errors.New("not found")
)

// Error is a classified failure carrying the message shown to the operator.
type Error struct {
	Marker    error
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if op := strings.TrimSpace(e.Operation); op != "" {
		parts = append(parts, op)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return e.marker().Error()
	}
	return e.marker().Error() + ": " + strings.Join(parts, ": ")
}

// Is matches the marker so errors.Is(err, ErrValidation) works.
func (e *Error) Is(target error) bool { return target == e.marker() }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) marker() error {
	if e.Marker == nil {
		return ErrTransport
	}
	return e.Marker
}

// Wrap tags err with marker and records the operator-facing message.
func Wrap(marker error, operation, message string, err error) error {
	return &Error{Marker: marker, Operation: operation, Message: message, Err: err}
}

// Validation builds a validation guard error with message.
func Validation(operation, message string) error {
	return Wrap(ErrValidation, operation, message, nil)
}

// UserMessage returns the text an operator should see for err: the recorded
// message of the outermost classified error, else the plain error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var classified *Error
	if errors.As(err, &classified) {
		if msg := strings.TrimSpace(classified.Message); msg != "" {
			return msg
		}
		if classified.Err != nil {
			return classified.Err.Error()
		}
	}
	return err.Error()
}

// Kind returns a short label for the error class, used in logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrRemoteOperation):
		return "remote"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "transport"
	}
}
