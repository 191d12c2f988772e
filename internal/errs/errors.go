// Package errs provides the unified error type used across all of HawkDB.
//
// Every subsystem (session, profile store, exporter, runner, …) wraps its
// native errors into *errs.Error before returning them to callers. Callers
// use the Is* predicates to handle errors without importing driver-specific
// packages.
//
// Usage:
//
//	// In a driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindTimeout, "connect timed out", netErr)
//
//	// In a handler — check error kind:
//	if errs.IsNotFound(err) {
//	    http.Error(w, "not found", http.StatusNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// Drivers map their native errors (MySQL error numbers, SQLSTATE codes,
// filesystem errors) to one of these kinds, giving callers a single
// consistent API.
type ErrKind int

const (
	ErrKindUnknown           ErrKind = iota
	ErrKindNotFound                  // profile or object does not exist
	ErrKindAuthFailed                // server rejected the credentials
	ErrKindHostUnreachable           // host not found or connection refused
	ErrKindTimeout                   // context deadline / dial timeout
	ErrKindNotConnected              // operation requires an open session
	ErrKindQueryFailed               // SQL syntax or runtime execution error
	ErrKindInvalidInput              // bad arguments from the caller
	ErrKindIOFailure                 // file or store could not be created/written
	ErrKindUnsupportedFormat         // unknown export format
	ErrKindBusy                      // a query is already in flight
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindAuthFailed:
		return "auth_failed"
	case ErrKindHostUnreachable:
		return "host_unreachable"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindNotConnected:
		return "not_connected"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindIOFailure:
		return "io_failure"
	case ErrKindUnsupportedFormat:
		return "unsupported_format"
	case ErrKindBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all HawkDB subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
// Code carries the raw server error number (MySQL errno, or 0 when the
// backend has no numeric code) so the caller can render an actionable
// message without re-parsing the error string.
type Error struct {
	Kind    ErrKind
	Message string
	Code    int
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// WrapCode is Wrap with the backend's raw numeric error code attached.
func WrapCode(kind ErrKind, msg string, code int, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Code: code, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing profile, row, or object.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsAuthFailed reports whether the server rejected the supplied credentials.
func IsAuthFailed(err error) bool {
	return KindOf(err) == ErrKindAuthFailed
}

// IsHostUnreachable reports whether the target host could not be reached.
func IsHostUnreachable(err error) bool {
	return KindOf(err) == ErrKindHostUnreachable
}

// IsTimeout reports whether err was caused by a deadline or dial timeout.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsNotConnected reports whether the operation was attempted on a closed session.
func IsNotConnected(err error) bool {
	return KindOf(err) == ErrKindNotConnected
}

// IsQueryFailed reports whether err is a SQL execution error.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsIOFailure reports whether a file or object store write failed.
func IsIOFailure(err error) bool {
	return KindOf(err) == ErrKindIOFailure
}

// IsBusy reports whether a query was rejected because one is already in flight.
func IsBusy(err error) bool {
	return KindOf(err) == ErrKindBusy
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
