package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller. The HTTP layer maps each kind to a status code.
type Kind int

const (
	// Upstream is the default: the record store (or another collaborator) failed.
	Upstream Kind = iota
	NotFound
	PermissionDenied
	Conflict
	InvalidReference
	Invalid
	Unauthenticated
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NOT_FOUND"
	case PermissionDenied:
		return "PERMISSION_DENIED"
	case Conflict:
		return "CONFLICT"
	case InvalidReference:
		return "INVALID_REFERENCE"
	case Invalid:
		return "BAD_REQUEST"
	case Unauthenticated:
		return "UNAUTHORIZED"
	default:
		return "UPSTREAM_FAILURE"
	}
}

// Error is a typed application error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same kind and message,
// so that a wrapped sentinel still matches errors.Is(err, sentinel).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// New creates a new error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns a copy of e carrying err as its cause
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

// KindOf returns the kind of err. Errors that are not *Error are Upstream.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Upstream
}

// MessageOf returns the user-visible message of err
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "upstream failure"
}
