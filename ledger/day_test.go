package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcash/shift-ledger/ledger"
)

// =============================================================================
// CLOSE DAY
// =============================================================================

func TestCloseDay_WithShiftRecords_Closes(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")
	closeShift(t, e, "Asha", "2025-05-01", 50000, ledger.PaymentBreakdown{})

	require.NoError(t, e.CloseDay(ctx, date))

	closed, err := e.Store().IsDayClosed(ctx, date)
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestCloseDay_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")
	closeShift(t, e, "Asha", "2025-05-01", 50000, ledger.PaymentBreakdown{})

	require.NoError(t, e.CloseDay(ctx, date))
	require.NoError(t, e.CloseDay(ctx, date))
}

func TestCloseDay_EmptyDay_Rejected(t *testing.T) {
	// GIVEN: a date with neither shift records nor paid bills
	// WHEN:  the day is closed
	// THEN:  EmptyDayError, and the date stays open

	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")

	err := e.CloseDay(ctx, date)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrEmptyDay))
	var emptyErr *ledger.EmptyDayError
	require.True(t, errors.As(err, &emptyErr))
	assert.True(t, emptyErr.Date.Equal(date))

	closed, err := e.Store().IsDayClosed(ctx, date)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestCloseDay_OnlyPaidBills_Closes(t *testing.T) {
	// A repayment-only day still has ledger activity and may close.
	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")

	_, err := e.RecordRepayment(ctx, ledger.RecordRepaymentInput{
		Date:               date,
		PayerType:          ledger.PayerCustomer,
		PayerName:          "Mteja A",
		ReceivedFromWaiter: "Asha",
		Amount:             amt(5000),
		Method:             ledger.MethodCash,
	})
	require.NoError(t, err)

	require.NoError(t, e.CloseDay(ctx, date))
}

// =============================================================================
// NEXT DAY
// =============================================================================

func TestOpenNextDay_RollsToCalendarNextDate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		current, want string
	}{
		{"2025-05-01", "2025-05-02"},
		{"2025-01-31", "2025-02-01"},
		{"2025-12-31", "2026-01-01"},
		{"2024-02-28", "2024-02-29"}, // leap year
	}
	for _, tc := range cases {
		next, err := e.OpenNextDay(ctx, ledger.MustParseDate(tc.current))
		require.NoError(t, err)
		assert.Equal(t, tc.want, next.String())
	}
}

func TestOpenNextDay_UnreconciledCredit_Blocked(t *testing.T) {
	// GIVEN: a closed date with signed-bill credit that was never itemized
	// WHEN:  the next day is opened
	// THEN:  UnreconciledPriorDayError listing the offending date

	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")
	closeShift(t, e, "Asha", "2025-05-01", 50000,
		ledger.PaymentBreakdown{SignedBill: amt(8000)})
	require.NoError(t, e.CloseDay(ctx, date))

	_, err := e.OpenNextDay(ctx, date)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrUnreconciledPriorDay))
	var gateErr *ledger.UnreconciledPriorDayError
	require.True(t, errors.As(err, &gateErr))
	require.Len(t, gateErr.Dates, 1)
	assert.True(t, gateErr.Dates[0].Equal(date))
}

func TestOpenNextDay_FinalizedCredit_Unblocked(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")
	closeShift(t, e, "Asha", "2025-05-01", 50000,
		ledger.PaymentBreakdown{SignedBill: amt(8000)})
	require.NoError(t, e.CloseDay(ctx, date))

	_, err := e.RecordCreditLine(ctx, date, "Mteja A", amt(8000))
	require.NoError(t, err)
	require.NoError(t, e.FinalizeCreditLedger(ctx, date))

	next, err := e.OpenNextDay(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-02", next.String())
}

func TestOpenNextDay_ZeroCreditTarget_NotGated(t *testing.T) {
	// A closed date without signed bills needs no credit reconciliation.
	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")
	closeShift(t, e, "Asha", "2025-05-01", 50000, ledger.PaymentBreakdown{})
	require.NoError(t, e.CloseDay(ctx, date))

	_, err := e.OpenNextDay(ctx, date)
	require.NoError(t, err)
}

func TestUnreconciledDates_SortedOldestFirst(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for _, d := range []string{"2025-05-03", "2025-05-01", "2025-05-02"} {
		closeShift(t, e, "Asha", d, 50000, ledger.PaymentBreakdown{SignedBill: amt(1000)})
		require.NoError(t, e.CloseDay(ctx, ledger.MustParseDate(d)))
	}

	dates, err := e.UnreconciledDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, "2025-05-01", dates[0].String())
	assert.Equal(t, "2025-05-02", dates[1].String())
	assert.Equal(t, "2025-05-03", dates[2].String())
}
