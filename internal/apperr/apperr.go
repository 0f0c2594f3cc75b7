// Package apperr contains the tagged error type used across layers so the
// HTTP boundary can map outcomes to status codes uniformly.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error outcome.
type Kind int

const (
	// KindInternal indicates a store or connectivity fault. The detail is
	// logged server-side and never leaks to clients.
	KindInternal Kind = iota

	// KindValidation indicates malformed input, optionally with field-level detail.
	KindValidation

	// KindNotFound indicates the requested entity does not exist.
	KindNotFound

	// KindConflict indicates a uniqueness violation (e.g. duplicate email).
	KindConflict

	// KindUnauthorized indicates missing or invalid credentials.
	KindUnauthorized

	// KindSessionExpired indicates the refresh token is also invalid or rotated out.
	KindSessionExpired
)

// Error carries a kind, a client-safe message and optional field errors.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation builds a validation error with field-level detail. The message
// should be the first field error so simple clients can display it directly.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func SessionExpired(message string) *Error { return New(KindSessionExpired, message) }

// Internal wraps a store or connectivity fault. Clients only ever see the
// generic message; the cause stays available for logging via Unwrap.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "server error", Err: err}
}

// KindOf reports the kind of err, defaulting to KindInternal for errors that
// did not originate from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf returns the field errors attached to err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// HTTPStatus maps an error to the status code the boundary should answer with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized, KindSessionExpired:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err. Unknown errors collapse to
// the generic server error message so internals are never leaked.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "server error"
}
