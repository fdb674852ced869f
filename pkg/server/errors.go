package server

import (
	"errors"
	"fmt"
)

// Sentinel kinds carried by service layer errors. Handlers map them
// onto http status codes with errors.Is.
var (
	ErrInternalServerError = errors.New("internal server error")
	ErrNotFound            = errors.New("your requested item is not found")
	ErrBadParamInput       = errors.New("given param is not valid")
)

// Error pairs an underlying error with one of the sentinel kinds and a
// caller facing message.
type Error struct {
	orig error
	kind error
	msg  string
}

// WrapErrorf wraps orig with a kind sentinel and a formatted message.
func WrapErrorf(orig error, kind error, format string, a ...interface{}) error {
	return &Error{
		orig: orig,
		kind: kind,
		msg:  fmt.Sprintf(format, a...),
	}
}

// NewErrorf builds a kinded error without an underlying cause.
func NewErrorf(kind error, format string, a ...interface{}) error {
	return WrapErrorf(nil, kind, format, a...)
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is matches the kind sentinel as well as the wrapped cause, so
// errors.Is(err, ErrNotFound) sees through WrapErrorf.
func (e *Error) Is(target error) bool {
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	return e.orig != nil && errors.Is(e.orig, target)
}

// Kind returns the sentinel the error was wrapped with.
func (e *Error) Kind() error {
	return e.kind
}
