// Package errors provides error handling for the CLAD toolchain.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for the person running the emitter
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := parse(); err != nil {
//	    return errors.Wrap(err, "failed to parse schema")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "declare the enum before using it")
//
//	// Check errors
//	if errors.Is(err, errors.ErrConstraint) {
//	    // schema rejected before any file was written
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions and panics
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
	HasAssertionFailure              = crdb.HasAssertionFailure
)

// Sentinel errors for the categories the toolchain reports.
// Use these with errors.Is() and wrap them to add context.
var (
	// ErrSyntax indicates the schema text could not be parsed
	ErrSyntax = New("syntax error")

	// ErrUnresolvedSymbol indicates a type or enum member name that is not declared
	ErrUnresolvedSymbol = New("unresolved symbol")

	// ErrIncludeCycle indicates a schema that includes itself, directly or transitively
	ErrIncludeCycle = New("include cycle")

	// ErrConstraint indicates a schema the C++ Lite emitter refuses to generate code for
	ErrConstraint = New("constraint violated")

	// ErrUnknownPrimitive indicates a builtin type name outside the emitter's tables
	ErrUnknownPrimitive = New("unknown primitive")

	// ErrAmbiguousConstructor indicates two union members that would share a helper constructor
	ErrAmbiguousConstructor = New("ambiguous helper constructor")

	// ErrNotFound indicates a missing schema or include file
	ErrNotFound = New("not found")

	// ErrInvalidConfig indicates configuration values that cannot be used
	ErrInvalidConfig = New("invalid configuration")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsConstraintError checks if an error is or wraps ErrConstraint
func IsConstraintError(err error) bool {
	return err != nil && Is(err, ErrConstraint)
}
