// Package domain defines core types, lookup structures, and errors for the
// CMTI import toolkit.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input. Run-level validation failures
// (for example an input table missing a required column family) abort the
// import run rather than produce partially-valid output.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnitMismatchError indicates a dimensional mismatch between a value's
// implied unit and the unit it should be converted to. Unit mismatches are
// fatal for the cell being converted: silently defaulting would corrupt
// downstream quantities.
type UnitMismatchError struct {
	Value   string
	From    string
	To      string
	FromDim string
	ToDim   string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("cannot convert %q from %s (%s) to %s (%s)",
		e.Value, e.From, e.FromDim, e.To, e.ToDim)
}

// MalformedIdentifierError indicates an identifier string that does not
// match the two-letter-code + zero-padded-sequence format. Malformed
// identifiers are skipped during allocator seeding, never fatal.
type MalformedIdentifierError struct {
	ID string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed identifier %q", e.ID)
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
