package domain

import "errors"

// Error kinds. Every business-rule failure wraps exactly one of them so the
// transport layer can pick a status code with errors.Is.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
)

// Error carries a client-facing message on top of an error kind.
type Error struct {
	kind error
	msg  string
}

func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Kind returns the taxonomy sentinel the error belongs to.
func (e *Error) Kind() error { return e.kind }
