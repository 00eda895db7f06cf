/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All failures the core can report, in one place. Every error is
  recoverable-by-caller: operations are all-or-nothing and the engine never
  enters an inconsistent state on failure.

ERROR CATEGORIES:
  1. Validation errors - bad input, rejected before any state change
  2. State errors - mutation attempted against a closed or finalized ledger
  3. Gate errors - day advance blocked by outstanding credit itemization

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, ledger.ErrUnreconciledPriorDay) {
        var gate *ledger.UnreconciledPriorDayError
        errors.As(err, &gate)
        // gate.Dates lists the offending dates
    }
*/
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for non-positive amounts, empty required
	// fields, and out-of-set enum values.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateName is returned on attendant or customer registration
	// collisions. Name comparison is case-insensitive.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnreconciledPriorDay is returned when opening the next day while a
	// closed prior day with a nonzero credit target is not yet finalized.
	ErrUnreconciledPriorDay = errors.New("prior day credit not reconciled")

	// ErrAmountMismatch is returned when the credit ledger is finalized
	// before the entered sum matches the target within tolerance.
	ErrAmountMismatch = errors.New("credit amount mismatch")

	// ErrAlreadyFinalized is returned when mutating a finalized credit ledger.
	ErrAlreadyFinalized = errors.New("credit ledger already finalized")

	// ErrDayClosed is returned when appending a shift record to a closed day.
	ErrDayClosed = errors.New("day already closed")

	// ErrEmptyDay is returned when closing a day with no shift records and
	// no paid bills.
	ErrEmptyDay = errors.New("cannot close an empty day")

	// ErrShiftAlreadyClosed is returned on a second shift close for the same
	// waiter on the same date.
	ErrShiftAlreadyClosed = errors.New("shift already closed for waiter on date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError identifies the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateNameError reports a roster registration collision.
type DuplicateNameError struct {
	Kind string // "attendant" or "customer"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already registered", e.Kind, e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// UnreconciledPriorDayError lists every closed date whose credit ledger is
// still outstanding. The caller must finalize those before the next day opens.
type UnreconciledPriorDayError struct {
	Dates []Date
}

func (e *UnreconciledPriorDayError) Error() string {
	strs := make([]string, len(e.Dates))
	for i, d := range e.Dates {
		strs[i] = d.String()
	}
	return fmt.Sprintf("signed bills outstanding for: %s", strings.Join(strs, ", "))
}

func (e *UnreconciledPriorDayError) Unwrap() error { return ErrUnreconciledPriorDay }

// AmountMismatchError carries the shortfall (positive) or excess (negative)
// between the credit target and what has been itemized so far.
type AmountMismatchError struct {
	Date      Date
	Target    decimal.Decimal
	Entered   decimal.Decimal
	Remaining decimal.Decimal // Target - Entered
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("credit ledger for %s does not match: target %s, entered %s, remaining %s",
		e.Date, e.Target, e.Entered, e.Remaining)
}

func (e *AmountMismatchError) Unwrap() error { return ErrAmountMismatch }

// AlreadyFinalizedError reports a mutation against a finalized credit ledger.
type AlreadyFinalizedError struct {
	Date Date
}

func (e *AlreadyFinalizedError) Error() string {
	return fmt.Sprintf("credit ledger for %s is finalized", e.Date)
}

func (e *AlreadyFinalizedError) Unwrap() error { return ErrAlreadyFinalized }

// EmptyDayError reports an attempt to close a day with nothing recorded.
type EmptyDayError struct {
	Date Date
}

func (e *EmptyDayError) Error() string {
	return fmt.Sprintf("no shift records or paid bills for %s", e.Date)
}

func (e *EmptyDayError) Unwrap() error { return ErrEmptyDay }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input or
// state, as opposed to a store failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrUnreconciledPriorDay) ||
		errors.Is(err, ErrAmountMismatch) ||
		errors.Is(err, ErrAlreadyFinalized) ||
		errors.Is(err, ErrDayClosed) ||
		errors.Is(err, ErrEmptyDay) ||
		errors.Is(err, ErrShiftAlreadyClosed)
}
