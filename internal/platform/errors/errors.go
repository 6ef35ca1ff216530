package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindConfig    Kind = "config"
	KindAuth      Kind = "auth"
	KindSession   Kind = "session"
	KindDomain    Kind = "domain"
	KindStorage   Kind = "storage"
	KindTransport Kind = "transport"
	KindBootstrap Kind = "bootstrap"
	KindUnknown   Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// IsKind checks whether any error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	for err != nil {
		if errors.As(err, &target) {
			return target.Kind == kind
		}
		err = errors.Unwrap(err)
	}
	return false
}

// RequestError carries a client-facing message together with the HTTP status
// the API layer should answer with. Domain services return these for
// validation and authorization failures; anything else is treated as an
// internal error by the transport layer.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// NewRequest builds a RequestError with the given status and message.
func NewRequest(status int, message string) *RequestError {
	return &RequestError{Status: status, Message: message}
}

func BadRequest(message string) *RequestError   { return NewRequest(http.StatusBadRequest, message) }
func Unauthorized(message string) *RequestError { return NewRequest(http.StatusUnauthorized, message) }
func Forbidden(message string) *RequestError    { return NewRequest(http.StatusForbidden, message) }
func NotFound(message string) *RequestError     { return NewRequest(http.StatusNotFound, message) }
func Conflict(message string) *RequestError     { return NewRequest(http.StatusConflict, message) }

// AsRequest extracts a RequestError from the chain, if present.
func AsRequest(err error) (*RequestError, bool) {
	var target *RequestError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
