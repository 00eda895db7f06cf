/*
aggregate.go - Pure derived-total arithmetic

PURPOSE:
  Computes per-day and per-range totals from shift records, signed bills, and
  paid bills. No side effects, no stored state: the same records always
  produce the same totals, in any order.

ORDER INDEPENDENCE:
  Every function here is a plain sum, so record order never affects the
  result. The test suite verifies this by permutation.

EMPTY INPUT:
  Empty input yields all-zero totals; there are no error conditions.
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TOTALS
// =============================================================================

// Totals aggregates shift records over a date or range. Every field is the
// plain sum of the corresponding record field.
type Totals struct {
	Sales        decimal.Decimal
	Cash         decimal.Decimal
	CRDB         decimal.Decimal
	Stanbic      decimal.Decimal
	MPesa        decimal.Decimal
	SignedBill   decimal.Decimal
	Discount     decimal.Decimal
	Cancellation decimal.Decimal
	Overpayments decimal.Decimal
}

// RepaymentTotals aggregates paid bills by method.
type RepaymentTotals struct {
	Cash    decimal.Decimal
	MPesa   decimal.Decimal
	Stanbic decimal.Decimal
	CRDB    decimal.Decimal
}

// Total is the sum across all methods.
func (r RepaymentTotals) Total() decimal.Decimal {
	return r.Cash.Add(r.MPesa).Add(r.Stanbic).Add(r.CRDB)
}

// =============================================================================
// PURE AGGREGATION FUNCTIONS
// =============================================================================

// SumShiftTotals sums the selected records. Order-independent.
func SumShiftTotals(records []ShiftRecord) Totals {
	var t Totals
	for _, r := range records {
		t.Sales = t.Sales.Add(r.TotalSales)
		t.Cash = t.Cash.Add(r.CalculatedCash)
		t.CRDB = t.CRDB.Add(r.Breakdown.CRDB)
		t.Stanbic = t.Stanbic.Add(r.Breakdown.Stanbic)
		t.MPesa = t.MPesa.Add(r.Breakdown.MPesa)
		t.SignedBill = t.SignedBill.Add(r.Breakdown.SignedBill)
		t.Discount = t.Discount.Add(r.Breakdown.Discount)
		t.Cancellation = t.Cancellation.Add(r.Breakdown.Cancellation)
		t.Overpayments = t.Overpayments.Add(r.OverpaymentAmount)
	}
	return t
}

// CreditTarget is the authoritative amount of credit that must be itemized
// per customer for a date: the sum of the signed-bill channel across that
// date's shift records. It is fixed the moment the day's shifts are closed.
func CreditTarget(records []ShiftRecord) decimal.Decimal {
	target := decimal.Zero
	for _, r := range records {
		target = target.Add(r.Breakdown.SignedBill)
	}
	return target
}

// EnteredCreditTotal sums the itemized signed-bill entries.
func EnteredCreditTotal(entries []SignedBillEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// SumRepayments breaks paid bills out by method. The switch is exhaustive
// over the closed PaymentMethod set.
func SumRepayments(entries []PaidBillEntry) RepaymentTotals {
	var t RepaymentTotals
	for _, e := range entries {
		switch e.Method {
		case MethodCash:
			t.Cash = t.Cash.Add(e.Amount)
		case MethodMPesa:
			t.MPesa = t.MPesa.Add(e.Amount)
		case MethodStanbic:
			t.Stanbic = t.Stanbic.Add(e.Amount)
		case MethodCRDB:
			t.CRDB = t.CRDB.Add(e.Amount)
		}
	}
	return t
}

// CashOnHand is the total physical cash expected in the drawer for a day:
// shift cash plus cash-method repayments.
func CashOnHand(records []ShiftRecord, repayments []PaidBillEntry) decimal.Decimal {
	return SumShiftTotals(records).Cash.Add(SumRepayments(repayments).Cash)
}

// =============================================================================
// ENGINE QUERIES - Load from the store, then delegate to the pure functions
// =============================================================================

// DayTotals aggregates shift records for a single date.
func (e *Engine) DayTotals(ctx context.Context, date Date) (Totals, error) {
	records, err := e.store.ShiftRecordsByDate(ctx, date)
	if err != nil {
		return Totals{}, err
	}
	return SumShiftTotals(records), nil
}

// RangeTotals aggregates shift records over [from, to] inclusive.
func (e *Engine) RangeTotals(ctx context.Context, from, to Date) (Totals, error) {
	records, err := e.store.ShiftRecordsInRange(ctx, from, to)
	if err != nil {
		return Totals{}, err
	}
	return SumShiftTotals(records), nil
}

// CreditTargetFor returns the credit target for a date.
func (e *Engine) CreditTargetFor(ctx context.Context, date Date) (decimal.Decimal, error) {
	records, err := e.store.ShiftRecordsByDate(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	return CreditTarget(records), nil
}

// RepaymentTotalsFor returns the per-method repayment totals for a date.
func (e *Engine) RepaymentTotalsFor(ctx context.Context, date Date) (RepaymentTotals, error) {
	entries, err := e.store.PaidBillsByDate(ctx, date)
	if err != nil {
		return RepaymentTotals{}, err
	}
	return SumRepayments(entries), nil
}

// CashOnHandFor returns the expected physical cash for a date.
func (e *Engine) CashOnHandFor(ctx context.Context, date Date) (decimal.Decimal, error) {
	records, err := e.store.ShiftRecordsByDate(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	repayments, err := e.store.PaidBillsByDate(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	return CashOnHand(records, repayments), nil
}
