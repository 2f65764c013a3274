package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so transport code can pick the
// right status without string matching.
type ErrorKind string

const (
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindPermissionDenied   ErrorKind = "permission-denied"
	KindFailedPrecondition ErrorKind = "failed-precondition"
	KindNotFound           ErrorKind = "not-found"
	KindResourceExhausted  ErrorKind = "resource-exhausted"
	KindInvalidArgument    ErrorKind = "invalid-argument"
	KindAborted            ErrorKind = "aborted"
	KindInternal           ErrorKind = "internal"
)

// Error is a domain error carrying its kind. Kinds surface to the
// caller unchanged; messages are safe to show to users.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Msg
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindInternal for anything that is
// not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
