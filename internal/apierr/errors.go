// Package apierr carries the uniform error taxonomy used across every
// component boundary (A-F): InvalidInput, NotFound, BackendUnavailable,
// CacheUnavailable, ComputeError, and Unknown. Components return plain
// (value, error) pairs as Go idiom dictates; the error, when non-nil, is
// always either an *Error (an expected, classified failure) or a wrapped
// Go error that the caller should treat as Unknown.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the way spec.md's error table does.
type Kind int

const (
	// Unknown covers non-Error failures (programming errors, panics
	// recovered at a boundary) that have no more specific classification.
	Unknown Kind = iota
	// InvalidInput covers malformed request shapes: bad JSON, wrong types,
	// G < 1, maxAttempts <= 0, a boardId that isn't a UUID.
	InvalidInput
	// NotFound means the boardId is absent from the durable backend.
	NotFound
	// BackendUnavailable means the durable backend timed out or refused
	// the connection; no retry happens inside the core.
	BackendUnavailable
	// CacheUnavailable means the shared cache is absent or erroring. This
	// kind is produced internally by the cache tier but is swallowed
	// before it ever reaches a component boundary.
	CacheUnavailable
	// ComputeError covers unexpected engine/detector failures such as an
	// invariant breach.
	ComputeError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case NotFound:
		return "NotFound"
	case BackendUnavailable:
		return "BackendUnavailable"
	case CacheUnavailable:
		return "CacheUnavailable"
	case ComputeError:
		return "ComputeError"
	default:
		return "Unknown"
	}
}

// Error is the classified failure type every component returns for expected
// error conditions.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a classified Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a classified Error that wraps cause, so errors.Is/errors.As
// on cause still succeeds through this value.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err, returning Unknown for any error that
// isn't an *Error (including nil, which callers shouldn't pass).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
