/*
Package ledger provides the shift-reconciliation core engine.

PURPOSE:
  This package contains the types and rules governing how a venue's daily
  shift records, customer-credit ledger ("signed bills"), and debt-repayment
  ledger ("paid bills") interact: the cash/breakdown reconciliation formula,
  the day-closing state machine, and the credit itemization gate that must be
  satisfied before sales can roll forward to the next day.

KEY CONCEPTS IN THIS FILE (types.go):
  - PaymentBreakdown: the six itemized payment channels entered at shift close
  - ShiftRecord: one waiter's closed shift for one date (immutable)
  - SignedBillEntry: one customer's credit line for one date (merged by addition)
  - PaidBillEntry: one debt-repayment event (append-only, never merged)
  - Attendant / Customer: roster entries with case-insensitive unique names

DESIGN PRINCIPLES:
  1. Immutability: ShiftRecords and PaidBillEntries are never edited or deleted
  2. Precision: shopspring/decimal for all amounts, no floats in the core
  3. Derivation: totals, credit targets, and attendant status are always
     recomputed from source ledgers, never stored alongside them
  4. Closed enums: payer types and payment methods are tagged variants with
     exhaustive handling at every aggregation site

SEE ALSO:
  - shift.go: reconciliation formula evaluated at shift close
  - day.go: day-closing state machine
  - credit.go: signed-bill itemization and finalization
  - repayment.go: paid-bill recorder
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT BREAKDOWN - The six itemized channels entered at shift close
// =============================================================================

// PaymentBreakdown holds the non-cash portion of a shift's declared sales,
// itemized by channel. Whatever the breakdown does not cover is handed over
// as physical cash (see ReconcileShift).
type PaymentBreakdown struct {
	CRDB         decimal.Decimal
	Stanbic      decimal.Decimal
	MPesa        decimal.Decimal
	SignedBill   decimal.Decimal
	Discount     decimal.Decimal
	Cancellation decimal.Decimal
}

// Sum returns the total across all six channels.
func (b PaymentBreakdown) Sum() decimal.Decimal {
	return b.CRDB.
		Add(b.Stanbic).
		Add(b.MPesa).
		Add(b.SignedBill).
		Add(b.Discount).
		Add(b.Cancellation)
}

// Validate rejects negative channel amounts.
func (b PaymentBreakdown) Validate() error {
	fields := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"crdb", b.CRDB},
		{"stanbic", b.Stanbic},
		{"mpesa", b.MPesa},
		{"signed_bill", b.SignedBill},
		{"discount", b.Discount},
		{"cancellation", b.Cancellation},
	}
	for _, f := range fields {
		if f.amount.IsNegative() {
			return &ValidationError{Field: f.name, Reason: "amount must not be negative"}
		}
	}
	return nil
}

// =============================================================================
// SHIFT RECORD - One waiter's closed shift for one date
// =============================================================================

// ShiftRecord is immutable once created. CalculatedCash and OverpaymentAmount
// are evaluated exactly once, at shift close, and never recomputed.
type ShiftRecord struct {
	ID                string
	WaiterName        string
	Date              Date
	TotalSales        decimal.Decimal
	Breakdown         PaymentBreakdown
	CalculatedCash    decimal.Decimal
	OverpaymentAmount decimal.Decimal

	// Captured only when the shift is overpaid (breakdown exceeds declared sales).
	OverpaymentMethod  string
	OverpaymentRemarks string

	CreatedAt time.Time
}

// Overpaid reports whether the shift closed with an overpayment.
func (r ShiftRecord) Overpaid() bool {
	return r.OverpaymentAmount.IsPositive()
}

// =============================================================================
// ROSTER - Attendants and customers
// =============================================================================

// Attendant is a registered waiter. Deleting an attendant never cascades to
// shift records: records keep the waiter name as a denormalized reference.
type Attendant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// AttendantStatus is derived at read time from the shift and closed-date
// ledgers. It is never stored.
type AttendantStatus string

const (
	// AttendantClosed: a shift record exists for the attendant on the date.
	AttendantClosed AttendantStatus = "CLOSED"
	// AttendantPending: the day is still open and no record exists yet.
	AttendantPending AttendantStatus = "PENDING"
	// AttendantNoSales: the day closed without a record for the attendant.
	AttendantNoSales AttendantStatus = "NO_SALES"
)

// AttendantDayStatus pairs an attendant with their derived status and sales
// for one date. Used by the manager roster view.
type AttendantDayStatus struct {
	Attendant Attendant
	Status    AttendantStatus
	Sales     decimal.Decimal
}

// Customer is a credit-worthy party, registered the first time credit is
// recorded against a new name.
type Customer struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// =============================================================================
// SIGNED BILL - Customer credit ledger line
// =============================================================================

// SignedBillEntry is one customer's credit line for one date. At most one
// entry exists per (date, customer); repeated recording merges by addition.
type SignedBillEntry struct {
	ID           string
	Date         Date
	CustomerID   string
	CustomerName string
	Amount       decimal.Decimal
}

// CreditStatus is the per-date state of the credit ledger.
type CreditStatus string

const (
	CreditNotApplicable CreditStatus = "NOT_APPLICABLE" // credit target is zero
	CreditPending       CreditStatus = "PENDING"        // target > 0, not itemized yet
	CreditMatched       CreditStatus = "MATCHED"        // entered sum within tolerance, not finalized
	CreditFinalized     CreditStatus = "FINALIZED"      // irreversible
)

// =============================================================================
// PAID BILL - Debt-repayment ledger line
// =============================================================================

// PayerType classifies who is repaying: a customer settling a signed bill, or
// a waiter handing in cash they still owe.
type PayerType string

const (
	PayerCustomer PayerType = "CUSTOMER"
	PayerWaiter   PayerType = "WAITER"
)

// Valid reports whether the payer type is one of the closed set.
func (p PayerType) Valid() bool {
	switch p {
	case PayerCustomer, PayerWaiter:
		return true
	}
	return false
}

// PaymentMethod is the channel a repayment arrived through.
type PaymentMethod string

const (
	MethodCash    PaymentMethod = "CASH"
	MethodMPesa   PaymentMethod = "M-PESA"
	MethodStanbic PaymentMethod = "STANBIC"
	MethodCRDB    PaymentMethod = "CRDB"
)

// Valid reports whether the method is one of the closed set.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodMPesa, MethodStanbic, MethodCRDB:
		return true
	}
	return false
}

// PaidBillEntry is one repayment event. Append-only: duplicates are
// independent lines, never merged.
type PaidBillEntry struct {
	ID        string
	Date      Date
	PayerType PayerType
	PayerName string

	// ReceivedFromWaiter is the waiter who physically handed in the money,
	// regardless of who the payer is.
	ReceivedFromWaiter string

	Amount    decimal.Decimal
	Method    PaymentMethod
	CreatedAt time.Time
}
