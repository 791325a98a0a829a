// Package domainerrors defines coded errors that services return to callers.
//
// Stores return sentinel errors (see pkg/platform/sentinel) describing facts
// about stored records. Services translate those facts into a coded Error so
// callers can branch on the Code without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the class of a domain error.
type Code string

const (
	CodeEntityNotFound       Code = "entity_not_found"
	CodeRelationshipNotFound Code = "relationship_not_found"
	CodeNotAParty            Code = "not_a_party"
	CodeUnauthorized         Code = "unauthorized"
	CodeAlreadyTerminated    Code = "already_terminated"
	CodeAlreadyRegistered    Code = "already_registered"
	CodeInvalidInput         Code = "invalid_input"
	CodeInvariantViolation   Code = "invariant_violation"
	CodeInternal             Code = "internal"
)

// Error is a domain error carrying a Code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
// Wrapping a nil error returns nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// GetCode returns the code of the outermost domain error in err's chain,
// or the empty Code when err carries none.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// HasCode reports whether err's outermost domain error has the given code.
func HasCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}
