/*
shift.go - Shift close and the cash/breakdown reconciliation formula

PURPOSE:
  Closing a shift turns a waiter's declared sales and itemized payment
  breakdown into an immutable ShiftRecord. The residual the breakdown does
  not cover is the physical cash the waiter must hand over; if the breakdown
  exceeds declared sales, the shift is overpaid instead.

FORMULA:
  difference = breakdown_sum - declared

  difference > 0:  cash = 0, overpayment = difference
  otherwise:       cash = declared - breakdown_sum, overpayment = 0

  Evaluated exactly once at close; the derived values are stored on the
  record and never recomputed.
*/
package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// ReconcileShift evaluates the cash/breakdown formula for a single shift.
func ReconcileShift(declared decimal.Decimal, b PaymentBreakdown) (cash, overpayment decimal.Decimal) {
	difference := b.Sum().Sub(declared)
	if difference.IsPositive() {
		return decimal.Zero, difference
	}
	return declared.Sub(b.Sum()), decimal.Zero
}

// CloseShiftInput carries everything the cashier enters at shift close.
type CloseShiftInput struct {
	WaiterName string
	Date       Date
	TotalSales decimal.Decimal
	Breakdown  PaymentBreakdown

	// Recorded only when the shift turns out overpaid.
	OverpaymentMethod  string
	OverpaymentRemarks string
}

// CloseShift validates the input, evaluates the reconciliation formula, and
// appends the resulting immutable record.
//
// Rejections: empty waiter name, non-positive declared sales, negative
// breakdown fields, a closed day, or a second close for the same waiter on
// the same date.
func (e *Engine) CloseShift(ctx context.Context, in CloseShiftInput) (*ShiftRecord, error) {
	waiter := strings.TrimSpace(in.WaiterName)
	if waiter == "" {
		return nil, &ValidationError{Field: "waiter_name", Reason: "required"}
	}
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "required"}
	}
	if !in.TotalSales.IsPositive() {
		return nil, &ValidationError{Field: "total_sales", Reason: "must be positive"}
	}
	if err := in.Breakdown.Validate(); err != nil {
		return nil, err
	}

	closed, err := e.store.IsDayClosed(ctx, in.Date)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, ErrDayClosed
	}

	existing, err := e.store.ShiftRecordsByDate(ctx, in.Date)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if strings.EqualFold(r.WaiterName, waiter) {
			return nil, ErrShiftAlreadyClosed
		}
	}

	cash, overpayment := ReconcileShift(in.TotalSales, in.Breakdown)

	rec := ShiftRecord{
		ID:                e.newID(),
		WaiterName:        waiter,
		Date:              in.Date,
		TotalSales:        in.TotalSales,
		Breakdown:         in.Breakdown,
		CalculatedCash:    cash,
		OverpaymentAmount: overpayment,
		CreatedAt:         e.now(),
	}
	if overpayment.IsPositive() {
		rec.OverpaymentMethod = strings.TrimSpace(in.OverpaymentMethod)
		rec.OverpaymentRemarks = strings.TrimSpace(in.OverpaymentRemarks)
	}

	if err := e.store.AppendShiftRecord(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
