// Package wtxerr defines the error kinds shared across the wikidom core
// (spec §7). Handlers never throw on ordinary malformed input; they log
// and fall back. Assertions are reserved for violated invariants.
package wtxerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind discriminates the error categories spec §7 names.
type Kind int

const (
	// MalformedInput is an unexpected token shape or attribute structure.
	// Callers log at warn and fall back to a generic handler.
	MalformedInput Kind = iota
	// InvariantViolation is an internal contract broken, e.g. the
	// expander losing a hoisted meta's provenance. Treated as a bug.
	InvariantViolation
	// ExpansionLimit is returned when template expansion yields no
	// value or exceeds a depth/retry bound.
	ExpansionLimit
	// UnsupportedConstruct is a shape a serializer handler cannot model.
	UnsupportedConstruct
	// ValidationError is a page-bundle validation failure.
	ValidationError
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "MalformedInput"
	case InvariantViolation:
		return "InvariantViolation"
	case ExpansionLimit:
		return "ExpansionLimit"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	case ValidationError:
		return "ValidationError"
	default:
		return "Unknown"
	}
}

// Error is a kinded, wrapped error. Use errors.As to recover the Kind.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a kinded error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a kinded error around an underlying cause, preserving the
// pkg/errors stack trace of cause where available.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.WithStack(cause)}
}

// Is reports whether err (or something it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
