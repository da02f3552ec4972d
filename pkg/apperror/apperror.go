package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error category.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// Error carries an error kind together with the HTTP status the handler
// boundary should report. Intermediate layers wrap it with %w; the status is
// resolved exactly once, at the outermost handler.
type Error struct {
	Kind   Kind
	Status int
	Msg    string
}

func (e *Error) Error() string {
	return e.Msg
}

// Validation reports a malformed or unacceptable request.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Msg: msg}
}

// NotFound reports a missing resource.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Msg: msg}
}

// NotFoundf reports a missing resource with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return NotFound(fmt.Sprintf(format, args...))
}

// Internal reports an unexpected failure.
func Internal(msg string) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Msg: msg}
}

// Status resolves the HTTP status for err. Anything that is not an *Error is
// an unexpected failure and maps to 500.
func Status(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	return http.StatusInternalServerError
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}

	return false
}
