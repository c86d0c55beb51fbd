package common

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Is reports whether target is an *Error with the same code.
// This allows errors.Is(err, common.ErrConfiguration) regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ConfigurationErrorf creates a configuration error with a formatted message.
func ConfigurationErrorf(format string, args ...interface{}) *Error {
	return NewError(RetCConfiguration, fmt.Sprintf(format, args...))
}

// InvalidEntityf creates an invalid entity error with a formatted message.
func InvalidEntityf(format string, args ...interface{}) *Error {
	return NewError(RetCInvalidEntity, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Operation executed successfully.
	RetCConfiguration                // 1: Unknown descriptor or malformed descriptor.
	RetCInvalidEntity                // 2: Entity identity cannot be derived.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCConfiguration:
		return "ConfigurationError"
	case RetCInvalidEntity:
		return "InvalidEntity"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrConfiguration = &Error{Code: RetCConfiguration}
	ErrInvalidEntity = &Error{Code: RetCInvalidEntity}
)
