// Package apperr defines the error taxonomy shared by all features.
// Usecases return *Error values; transport handlers translate the Kind into an HTTP status.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindServer is any unexpected failure, including store and image store failures.
	KindServer Kind = iota
	// KindInvalidInput is a malformed or missing required field.
	KindInvalidInput
	// KindConflict is a uniqueness violation.
	KindConflict
	// KindNotFound means the requested entity does not resolve.
	KindNotFound
	// KindInvalidCredentials is an authentication mismatch.
	KindInvalidCredentials
	// KindUnauthorized means the bearer token is missing or unknown.
	KindUnauthorized
)

// String returns a readable name for logs.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "server_error"
	}
}

// Error is an application error carrying a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput creates a KindInvalidInput error.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// Conflict creates a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NotFound creates a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InvalidCredentials creates a KindInvalidCredentials error.
func InvalidCredentials(msg string) *Error {
	return &Error{Kind: KindInvalidCredentials, Message: msg}
}

// Unauthorized creates a KindUnauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Server wraps an unexpected failure. The underlying message is passed through.
// Errors that are already *Error are returned unchanged.
func Server(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindServer, Message: err.Error(), Err: err}
}

// KindOf reports the Kind of err. Errors outside the taxonomy are KindServer.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}

// HTTPStatus maps err to the status code of the public HTTP contract.
// Lookups that do not resolve are reported as 400, not 404.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindNotFound, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
