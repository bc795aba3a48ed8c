package service

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so callers can map them to transport
// responses without parsing messages.
type Kind int

const (
	// KindInvalidInput marks malformed requests (start >= end,
	// non-positive duration). Caller-correctable, never retried.
	KindInvalidInput Kind = iota + 1
	// KindConflict marks an overlap, whether caught by the pre-check or
	// by the store's exclusion constraint. Retrying the same interval
	// will fail identically.
	KindConflict
	// KindNotFound marks operations on a booking id that does not exist.
	KindNotFound
	// KindUnavailable marks store reachability failures. The only kind
	// where a caller-level retry with backoff makes sense; the engine
	// itself never retries.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Error is the typed failure returned by every engine operation.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func wrapError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain, or 0 for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsInvalidInput(err error) bool { return KindOf(err) == KindInvalidInput }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsUnavailable(err error) bool  { return KindOf(err) == KindUnavailable }
