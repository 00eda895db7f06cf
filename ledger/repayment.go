/*
repayment.go - Debt-repayment recorder (paid bills)

PURPOSE:
  Records repayment of previously extended credit, or of cash a waiter still
  owes. Strictly append-only: no uniqueness constraint, no merging - every
  call produces a new independent line, even for identical input.

NO GATING:
  Repayments are not gated by day-closed or credit-finalized state. Real
  debt collection is decoupled from the daily closing cycle: a customer may
  settle a month-old signed bill on any date.
*/
package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// RecordRepaymentInput carries one repayment event.
type RecordRepaymentInput struct {
	Date               Date
	PayerType          PayerType
	PayerName          string
	ReceivedFromWaiter string
	Amount             decimal.Decimal
	Method             PaymentMethod
}

// RecordRepayment validates and appends a paid-bill line.
func (e *Engine) RecordRepayment(ctx context.Context, in RecordRepaymentInput) (*PaidBillEntry, error) {
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "required"}
	}
	if !in.PayerType.Valid() {
		return nil, &ValidationError{Field: "payer_type", Reason: "must be CUSTOMER or WAITER"}
	}
	payer := strings.TrimSpace(in.PayerName)
	if payer == "" {
		return nil, &ValidationError{Field: "payer_name", Reason: "required"}
	}
	waiter := strings.TrimSpace(in.ReceivedFromWaiter)
	if waiter == "" {
		return nil, &ValidationError{Field: "received_from_waiter", Reason: "required"}
	}
	if !in.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !in.Method.Valid() {
		return nil, &ValidationError{Field: "method", Reason: "unknown payment method"}
	}

	entry := PaidBillEntry{
		ID:                 e.newID(),
		Date:               in.Date,
		PayerType:          in.PayerType,
		PayerName:          payer,
		ReceivedFromWaiter: waiter,
		Amount:             in.Amount,
		Method:             in.Method,
		CreatedAt:          e.now(),
	}
	if err := e.store.AppendPaidBill(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
