/*
credit.go - Credit reconciliation engine (signed bills)

PURPOSE:
  Credit extended during a day's shifts is entered as a single signed-bill
  channel amount per shift. Before the books close, that total must be
  itemized per named customer. The target is derived from the shift records
  and never entered independently: this engine's job is purely to itemize a
  known total, not to determine it.

STATES (per date):
  NOT_APPLICABLE - credit target is zero
  PENDING        - target > 0, entered sum does not match yet
  MATCHED        - entered sum within tolerance, not finalized
  FINALIZED      - in the finalized-credit-date set, irreversible

TOLERANCE:
  |entered - target| <= 1 unit. The absolute threshold absorbs rounding
  noise; exact equality is not required.

MERGE RULE:
  At most one entry per (date, customer). A repeat entry for the same
  customer on the same date adds to the existing line in place.
*/
package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// creditTolerance is the absolute matching threshold for finalization.
var creditTolerance = decimal.NewFromInt(1)

// CreditStatus derives the per-date state of the credit ledger.
func (e *Engine) CreditStatus(ctx context.Context, date Date) (CreditStatus, error) {
	finalized, err := e.store.IsCreditFinalized(ctx, date)
	if err != nil {
		return "", err
	}
	if finalized {
		return CreditFinalized, nil
	}

	target, err := e.CreditTargetFor(ctx, date)
	if err != nil {
		return "", err
	}
	if !target.IsPositive() {
		return CreditNotApplicable, nil
	}

	entries, err := e.store.SignedBillsByDate(ctx, date)
	if err != nil {
		return "", err
	}
	entered := EnteredCreditTotal(entries)
	if target.Sub(entered).Abs().LessThanOrEqual(creditTolerance) {
		return CreditMatched, nil
	}
	return CreditPending, nil
}

// RecordCreditLine itemizes credit against a customer. The customer is looked
// up by case-insensitive name and registered if unknown. If an entry for
// (date, customer) already exists, the amount is added to it in place;
// otherwise a new entry is appended.
//
// Rejected when the date's ledger is finalized or the amount is not positive.
func (e *Engine) RecordCreditLine(ctx context.Context, date Date, customerName string, amount decimal.Decimal) (*SignedBillEntry, error) {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return nil, &ValidationError{Field: "customer_name", Reason: "required"}
	}
	if !amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	finalized, err := e.store.IsCreditFinalized(ctx, date)
	if err != nil {
		return nil, err
	}
	if finalized {
		return nil, &AlreadyFinalizedError{Date: date}
	}

	customer, err := e.FindCustomerByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		customer, err = e.RegisterCustomer(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	entries, err := e.store.SignedBillsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, existing := range entries {
		if existing.CustomerID == customer.ID {
			merged := existing
			merged.Amount = existing.Amount.Add(amount)
			if err := e.store.UpdateSignedBillAmount(ctx, existing.ID, merged.Amount); err != nil {
				return nil, err
			}
			return &merged, nil
		}
	}

	entry := SignedBillEntry{
		ID:           e.newID(),
		Date:         date,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Amount:       amount,
	}
	if err := e.store.AppendSignedBill(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FinalizeCreditLedger locks the date's signed bills against further edits.
// One-way; finalizing an already-finalized date is a no-op. Fails with
// AmountMismatchError when the entered sum is outside tolerance.
func (e *Engine) FinalizeCreditLedger(ctx context.Context, date Date) error {
	finalized, err := e.store.IsCreditFinalized(ctx, date)
	if err != nil {
		return err
	}
	if finalized {
		return nil
	}

	target, err := e.CreditTargetFor(ctx, date)
	if err != nil {
		return err
	}
	entries, err := e.store.SignedBillsByDate(ctx, date)
	if err != nil {
		return err
	}
	entered := EnteredCreditTotal(entries)

	remaining := target.Sub(entered)
	if remaining.Abs().GreaterThan(creditTolerance) {
		return &AmountMismatchError{
			Date:      date,
			Target:    target,
			Entered:   entered,
			Remaining: remaining,
		}
	}

	return e.store.MarkCreditFinalized(ctx, date)
}
