/*
day.go - Day-closing state machine

PURPOSE:
  A calendar date is OPEN by default and transitions one-way to CLOSED.
  Closing locks the date against further shift entries. Opening the next day
  is gated on every prior closed date with a nonzero credit target having its
  signed bills fully itemized and finalized: credit must be attributable to
  named customers before sales roll forward.

STATES:
  OPEN   - not in the closed-date set; shift entries accepted
  CLOSED - in the closed-date set; irreversible

The credit ledger has its own state machine on top of CLOSED; see credit.go.
*/
package ledger

import (
	"context"
	"sort"
)

// CloseDay adds the date to the closed-date set. Idempotent: closing an
// already-closed date is a no-op. Closing a date with no shift records and
// no paid bills is rejected with EmptyDayError.
func (e *Engine) CloseDay(ctx context.Context, date Date) error {
	closed, err := e.store.IsDayClosed(ctx, date)
	if err != nil {
		return err
	}
	if closed {
		return nil
	}

	records, err := e.store.ShiftRecordsByDate(ctx, date)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		paid, err := e.store.PaidBillsByDate(ctx, date)
		if err != nil {
			return err
		}
		if len(paid) == 0 {
			return &EmptyDayError{Date: date}
		}
	}

	return e.store.MarkDayClosed(ctx, date)
}

// OpenNextDay computes the calendar-correct next date and opens it for shift
// entry. Fails with UnreconciledPriorDayError when any closed date with a
// nonzero credit target lacks finalization, listing every offending date.
func (e *Engine) OpenNextDay(ctx context.Context, current Date) (Date, error) {
	outstanding, err := e.UnreconciledDates(ctx)
	if err != nil {
		return Date{}, err
	}
	if len(outstanding) > 0 {
		return Date{}, &UnreconciledPriorDayError{Dates: outstanding}
	}
	return current.Next(), nil
}

// UnreconciledDates returns every closed date whose credit target is nonzero
// and whose signed-bill ledger is not yet finalized, oldest first.
func (e *Engine) UnreconciledDates(ctx context.Context) ([]Date, error) {
	closed, err := e.store.ClosedDates(ctx)
	if err != nil {
		return nil, err
	}

	var outstanding []Date
	for _, date := range closed {
		finalized, err := e.store.IsCreditFinalized(ctx, date)
		if err != nil {
			return nil, err
		}
		if finalized {
			continue
		}
		target, err := e.CreditTargetFor(ctx, date)
		if err != nil {
			return nil, err
		}
		if target.IsPositive() {
			outstanding = append(outstanding, date)
		}
	}

	sort.Slice(outstanding, func(i, j int) bool {
		return outstanding[i].Before(outstanding[j])
	})
	return outstanding, nil
}
