// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so the main function can map
// them to exit codes and scripts can branch on the code instead of
// parsing error message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing arguments, unparseable values, a malformed definition
	// file. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not exist:
	// a missing config file, an unknown handler name. Retrying with the
	// same parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient indicates a temporary failure: an address
	// already in use, a network error. The caller should retry, perhaps
	// after fixing the environment.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures. The caller should report the error rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// ExitCode maps the category to the process exit code. Validation
// failures exit 2, the conventional usage-error code; everything else
// exits 1.
func (c ErrorCategory) ExitCode() int {
	if c == CategoryValidation {
		return 2
	}
	return 1
}

// CmdError is a categorized error returned by CLI commands.
//
// CmdError wraps an inner error, preserving the full error chain for
// debugging while adding category metadata and an optional hint shown
// to the user below the error message. Use the category-specific
// constructors (Validation, NotFound, etc.) rather than constructing
// CmdError directly.
type CmdError struct {
	// Category classifies the error for exit-code mapping.
	Category ErrorCategory

	// Hint, when non-empty, is printed on its own line after the error
	// message. Use it to point at the likely fix ("run 'quarterdeck
	// check' on the file first").
	Hint string

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category and hint
// are not included; main prints them separately.
func (e *CmdError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the CmdError wrapper.
func (e *CmdError) Unwrap() error { return e.Err }

// ExitCode returns the exit code for the error's category.
func (e *CmdError) ExitCode() int { return e.Category.ExitCode() }

// WithHint attaches a hint line to the error and returns it.
func (e *CmdError) WithHint(format string, args ...any) *CmdError {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *CmdError {
	return &CmdError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *CmdError {
	return &CmdError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may
// succeed on retry.
func Transient(format string, args ...any) *CmdError {
	return &CmdError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or
// I/O error.
func Internal(format string, args ...any) *CmdError {
	return &CmdError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
