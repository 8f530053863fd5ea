// Package errors provides the failure vocabulary of the engine and the
// diagnostics that turn failures into human-readable hints.
//
// The package implements a layered approach:
//   - Kinds: a closed enumeration of everything that can go wrong
//   - Error: a structured error raised at the failure site with its Kind
//   - Diagnose: maps raw input plus an error to a message and suggestion
//   - Suggest: proactive hints for expressions that evaluated fine
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a calculation failure.
type Kind int

const (
	// KindSyntax is the generic parse or evaluation failure.
	KindSyntax Kind = iota

	// KindUnbalancedParentheses indicates mismatched '(' and ')'.
	KindUnbalancedParentheses

	// KindFunctionMissingParentheses indicates a function name used
	// without an argument list, e.g. "sin x".
	KindFunctionMissingParentheses

	// KindUnsolvableEquation indicates no root could be found.
	KindUnsolvableEquation

	// KindMissingIntegrationLimits indicates integral() without both limits.
	KindMissingIntegrationLimits

	// KindInvalidIntegrationLimits indicates a limit that is not a finite number.
	KindInvalidIntegrationLimits

	// KindUnknownIdentifier indicates an unknown function, constant or
	// an unbound variable.
	KindUnknownIdentifier

	// KindDivisionByZero is detected from the input text, not from IEEE
	// infinities.
	KindDivisionByZero
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax_error"
	case KindUnbalancedParentheses:
		return "unbalanced_parentheses"
	case KindFunctionMissingParentheses:
		return "function_missing_parentheses"
	case KindUnsolvableEquation:
		return "unsolvable_equation"
	case KindMissingIntegrationLimits:
		return "missing_integration_limits"
	case KindInvalidIntegrationLimits:
		return "invalid_integration_limits"
	case KindUnknownIdentifier:
		return "unknown_identifier"
	case KindDivisionByZero:
		return "division_by_zero"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so kinds serialize by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindSyntax,
		KindUnbalancedParentheses,
		KindFunctionMissingParentheses,
		KindUnsolvableEquation,
		KindMissingIntegrationLimits,
		KindInvalidIntegrationLimits,
		KindUnknownIdentifier,
		KindDivisionByZero,
	}
}

// Error is a failure tagged with its Kind and the operation that raised it.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Op names the stage that failed ("parse", "evaluate", "solve",
	// "derive", "integrate").
	Op string

	// Msg is the human-readable failure text.
	Msg string

	// Err is an optional underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	default:
		return e.Msg
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with a kind. Returns nil if err is nil.
func Wrap(err error, kind Kind, op, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// KindOf extracts the Kind of err. Errors that carry no Kind are
// treated as syntax errors.
func KindOf(err error) Kind {
	var calcErr *Error
	if errors.As(err, &calcErr) {
		return calcErr.Kind
	}
	return KindSyntax
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var calcErr *Error
	if errors.As(err, &calcErr) {
		return calcErr.Kind == kind
	}
	return false
}
