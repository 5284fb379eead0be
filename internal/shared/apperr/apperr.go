// Package apperr defines the error taxonomy shared by every repository.
// Callers classify errors with errors.Is against the Err* kinds.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds.
var (
	// ErrValidation indicates caller-supplied input violates a precondition
	// (unknown status value, empty required field, malformed email).
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateIdentity indicates an email or username collision on registration.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrNotFound indicates the operation targets a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates a backend I/O failure.
	ErrStorage = errors.New("storage failure")
)

// Error is a classified error. Kind is one of the Err* values above.
type Error struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause so errors.Is matches either.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validation returns an ErrValidation error for op.
func Validation(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Duplicate returns an ErrDuplicateIdentity error for op.
func Duplicate(op, format string, args ...any) error {
	return &Error{Kind: ErrDuplicateIdentity, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound error for op.
func NotFound(op, format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a backend failure as ErrStorage. A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: ErrStorage, Op: op, Err: err}
}

// HTTPStatus maps an error to the status code the transport layer answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to API clients.
// Storage and unclassified errors are reduced to a generic text.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && !errors.Is(ae.Kind, ErrStorage) {
		if ae.Message != "" {
			return ae.Message
		}
		return ae.Kind.Error()
	}
	return "internal error"
}
