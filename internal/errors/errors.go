// Package errors provides standardized error types for engine operations.
// Every fallible operation reports one specific Kind so callers can react
// programmatically without string matching, with operation context and
// error wrapping support.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure.
type Kind int

const (
	// KindSchemaMismatch indicates row-count, column-set or type conflicts
	// in construction, append or matrix input.
	KindSchemaMismatch Kind = iota
	// KindTypeError indicates incompatible cast, fill or operand types.
	KindTypeError
	// KindIndexOutOfBounds indicates a row or column index beyond bounds.
	KindIndexOutOfBounds
	// KindColumnNotFound indicates an unknown column name.
	KindColumnNotFound
	// KindEmptyInput indicates a statistical reduction over zero or
	// insufficient valid values.
	KindEmptyInput
	// KindMalformedInput indicates unparseable external data such as a
	// broken CSV record or a ragged matrix.
	KindMalformedInput
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSchemaMismatch:
		return "SchemaMismatch"
	case KindTypeError:
		return "TypeError"
	case KindIndexOutOfBounds:
		return "IndexOutOfBounds"
	case KindColumnNotFound:
		return "ColumnNotFound"
	case KindEmptyInput:
		return "EmptyInput"
	case KindMalformedInput:
		return "MalformedInput"
	default:
		return "Unknown"
	}
}

// Error is the standardized error across all engine operations.
type Error struct {
	Kind    Kind
	Op      string // operation name (e.g. "Sort", "Filter", "Cast")
	Column  string // column name if applicable
	Message string // human-readable description
	Cause   error  // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s failed on column %q: %s", e.Kind, e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s failed: %s", e.Kind, e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two engine errors by kind, which lets callers write
// errors.Is(err, &Error{Kind: KindTypeError}) style checks.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Constructors for consistent error creation.

// NewSchemaMismatch creates a schema conflict error.
func NewSchemaMismatch(op, message string) *Error {
	return &Error{Kind: KindSchemaMismatch, Op: op, Message: message}
}

// NewTypeError creates an incompatible-type error.
func NewTypeError(op, column, message string) *Error {
	return &Error{Kind: KindTypeError, Op: op, Column: column, Message: message}
}

// NewIndexOutOfBounds creates an out-of-range index error.
func NewIndexOutOfBounds(op string, index, length int) *Error {
	return &Error{
		Kind:    KindIndexOutOfBounds,
		Op:      op,
		Message: fmt.Sprintf("index %d out of bounds for length %d", index, length),
	}
}

// NewColumnNotFound creates an unknown-column error.
func NewColumnNotFound(op, column string) *Error {
	return &Error{Kind: KindColumnNotFound, Op: op, Column: column, Message: "column does not exist"}
}

// NewEmptyInput creates an insufficient-valid-values error.
func NewEmptyInput(op, message string) *Error {
	return &Error{Kind: KindEmptyInput, Op: op, Message: message}
}

// NewMalformedInput creates an unparseable-input error wrapping its cause.
func NewMalformedInput(op, message string, cause error) *Error {
	return &Error{Kind: KindMalformedInput, Op: op, Message: message, Cause: cause}
}
