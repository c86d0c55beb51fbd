package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Store Kinds
// --------------------------------------------------------------------------

// Kind identifies a native store. There is one store per kind per process.
type Kind string

const (
	KindLocal   Kind = "local"   // persistent across process restarts
	KindSession Kind = "session" // lives as long as the process
)

// Kinds lists all known store kinds.
var Kinds = []Kind{KindLocal, KindSession}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLocal, KindSession:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("invalid store kind %q. must be one of local, session", s)
	}
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Factory is a function type that creates the native store of a kind.
// It is used to abstract the creation of the store from the probe.
type Factory func() (IStore, error)

// IStore is the interface of a platform key/value store.
// Write operations fail with a *Error if the store is disabled or full,
// read operations return the requested data along with an error (nil on success).
type IStore interface {
	// SetItem inserts or updates a key–value pair.
	SetItem(key string, value []byte) (err error)
	// GetItem returns the value for a key. The boolean return value indicates whether a value for the key was found.
	GetItem(key string) (value []byte, loaded bool, err error)
	// RemoveItem deletes a key–value pair. Removing a missing key is not an error.
	RemoveItem(key string) (err error)
	// Keys returns all keys of the store in ascending order.
	Keys() (keys []string, err error)
	// Clear removes all key–value pairs.
	Clear() (err error)
	// Close releases the resources of the store. The store must not be used afterward.
	Close() (err error)
}

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
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCQuotaExceeded:
		errorCode = "QuotaExceeded"
	case RetCUnavailable:
		errorCode = "Unavailable"
	case RetCClosed:
		errorCode = "Closed"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("StoreError (code %s): %s", errorCode, e.Msg)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new StoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                // 1: Operation failed due to an internal error.
	RetCQuotaExceeded                // 2: The store is full.
	RetCUnavailable                  // 3: The store is disabled.
	RetCClosed                       // 4: The store was closed.
)

// Sentinels for errors.Is.
var (
	ErrQuotaExceeded = &Error{Code: RetCQuotaExceeded}
	ErrUnavailable   = &Error{Code: RetCUnavailable}
	ErrClosed        = &Error{Code: RetCClosed}
)
