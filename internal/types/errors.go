package types

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrAuthz      = errors.New("not authorized")
	ErrConflict   = errors.New("concurrent modification")
	ErrTransport  = errors.New("transport error")
)

// Error carries one of the Err* kinds. errors.Is matches both the kind and
// the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func NewError(op string, kind error, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// KindOf returns the Err* kind of err or nil when err carries none.
func KindOf(err error) error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return nil
}
