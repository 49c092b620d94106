package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a refresh cycle failed
type ErrorKind string

const (
	NetworkError   ErrorKind = "NETWORK_ERROR"
	ParseError     ErrorKind = "PARSE_ERROR"
	DataShapeError ErrorKind = "DATA_SHAPE_ERROR"
)

func (k ErrorKind) String() string {
	return string(k)
}

// Error is a failure of a single fetch cycle tagged with its kind
type Error struct {
	Kind ErrorKind
	Err  error
}

func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func NewErrorWithMsg(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error found in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind, true
	}
	return "", false
}
