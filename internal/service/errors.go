// Package service implements the authentication, admin and entry use cases.
package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed service call so the presentation layer can
// decide how to render it.
type ErrorKind int

// Error kinds.
const (
	KindValidation ErrorKind = iota + 1
	KindPersistence
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	case KindForbidden:
		return "forbidden"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the typed failure returned by every service operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a service error, or false if err is not one.
func KindOf(err error) (ErrorKind, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind, true
	}
	return 0, false
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func persistenceError(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

func forbiddenError(action string) *Error {
	return &Error{Kind: KindForbidden, Message: "admin role required to " + action}
}
