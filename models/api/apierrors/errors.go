package apierrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the stable machine-readable classification returned to clients
// and mapped to an HTTP status by the controller layer.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindUpstream        Kind = "UPSTREAM"
	KindInternal        Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Hint    string // filled for Forbidden, explains how to obtain the permission
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated() error {
	return &Error{Kind: KindUnauthenticated, Message: "no actor identity on the request"}
}

func Forbidden(message, hint string) error {
	return &Error{Kind: KindForbidden, Message: message, Hint: hint}
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Upstream(cause error, message string) error {
	return &Error{Kind: KindUpstream, Message: message, cause: cause}
}

// KindOf classifies any error; errors without a taxonomy kind are internal.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

func HintOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Hint
	}
	return ""
}

// MessageOf returns the client-safe message; internal errors are masked.
func MessageOf(err error, devMode bool) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if devMode {
		return err.Error()
	}
	return "internal error"
}
