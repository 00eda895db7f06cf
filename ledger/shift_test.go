package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcash/shift-ledger/ledger"
	memstore "github.com/smartcash/shift-ledger/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) *ledger.Engine {
	t.Helper()
	return ledger.NewEngine(memstore.NewMemory())
}

func amt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func closeShift(t *testing.T, e *ledger.Engine, waiter, date string, sales int64, b ledger.PaymentBreakdown) *ledger.ShiftRecord {
	t.Helper()
	rec, err := e.CloseShift(context.Background(), ledger.CloseShiftInput{
		WaiterName: waiter,
		Date:       ledger.MustParseDate(date),
		TotalSales: amt(sales),
		Breakdown:  b,
	})
	require.NoError(t, err)
	return rec
}

// =============================================================================
// RECONCILIATION FORMULA
// =============================================================================

func TestReconcileShift_BreakdownWithinDeclared_CashIsResidual(t *testing.T) {
	// GIVEN: declared=100000, breakdown crdb=20000 mpesa=10000 signedBill=5000
	// WHEN:  the formula is evaluated
	// THEN:  cash=65000, overpayment=0

	b := ledger.PaymentBreakdown{CRDB: amt(20000), MPesa: amt(10000), SignedBill: amt(5000)}

	cash, overpayment := ledger.ReconcileShift(amt(100000), b)

	assert.True(t, cash.Equal(amt(65000)), "cash should be declared minus breakdown, got %s", cash)
	assert.True(t, overpayment.IsZero(), "no overpayment expected, got %s", overpayment)
}

func TestReconcileShift_BreakdownExceedsDeclared_Overpaid(t *testing.T) {
	// GIVEN: declared=50000, breakdown crdb=60000
	// WHEN:  the formula is evaluated
	// THEN:  cash=0, overpayment=10000

	b := ledger.PaymentBreakdown{CRDB: amt(60000)}

	cash, overpayment := ledger.ReconcileShift(amt(50000), b)

	assert.True(t, cash.IsZero(), "cash should be zero when overpaid, got %s", cash)
	assert.True(t, overpayment.Equal(amt(10000)), "overpayment should be the excess, got %s", overpayment)
}

func TestReconcileShift_BreakdownEqualsDeclared_ZeroCashZeroOverpayment(t *testing.T) {
	b := ledger.PaymentBreakdown{Stanbic: amt(30000)}

	cash, overpayment := ledger.ReconcileShift(amt(30000), b)

	assert.True(t, cash.IsZero())
	assert.True(t, overpayment.IsZero())
}

// =============================================================================
// CLOSE SHIFT
// =============================================================================

func TestCloseShift_StoresDerivedValues(t *testing.T) {
	e := newTestEngine(t)

	rec := closeShift(t, e, "Asha", "2025-05-01", 100000,
		ledger.PaymentBreakdown{CRDB: amt(20000), MPesa: amt(10000), SignedBill: amt(5000)})

	assert.True(t, rec.CalculatedCash.Equal(amt(65000)))
	assert.True(t, rec.OverpaymentAmount.IsZero())
	assert.False(t, rec.Overpaid())
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestCloseShift_Overpaid_CapturesMethodAndRemarks(t *testing.T) {
	e := newTestEngine(t)

	rec, err := e.CloseShift(context.Background(), ledger.CloseShiftInput{
		WaiterName:         "Asha",
		Date:               ledger.MustParseDate("2025-05-01"),
		TotalSales:         amt(50000),
		Breakdown:          ledger.PaymentBreakdown{CRDB: amt(60000)},
		OverpaymentMethod:  "CRDB",
		OverpaymentRemarks: "bank slip attached",
	})
	require.NoError(t, err)

	assert.True(t, rec.Overpaid())
	assert.Equal(t, "CRDB", rec.OverpaymentMethod)
	assert.Equal(t, "bank slip attached", rec.OverpaymentRemarks)
}

func TestCloseShift_NotOverpaid_DropsOverpaymentAnnotations(t *testing.T) {
	e := newTestEngine(t)

	rec, err := e.CloseShift(context.Background(), ledger.CloseShiftInput{
		WaiterName:        "Asha",
		Date:              ledger.MustParseDate("2025-05-01"),
		TotalSales:        amt(50000),
		Breakdown:         ledger.PaymentBreakdown{CRDB: amt(10000)},
		OverpaymentMethod: "CRDB",
	})
	require.NoError(t, err)
	assert.Empty(t, rec.OverpaymentMethod)
}

func TestCloseShift_Validation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")

	_, err := e.CloseShift(ctx, ledger.CloseShiftInput{WaiterName: "", Date: date, TotalSales: amt(100)})
	assert.ErrorIs(t, err, ledger.ErrValidation, "empty waiter name")

	_, err = e.CloseShift(ctx, ledger.CloseShiftInput{WaiterName: "Asha", Date: date, TotalSales: amt(0)})
	assert.ErrorIs(t, err, ledger.ErrValidation, "zero declared sales")

	_, err = e.CloseShift(ctx, ledger.CloseShiftInput{
		WaiterName: "Asha", Date: date, TotalSales: amt(100),
		Breakdown: ledger.PaymentBreakdown{Discount: amt(-5)},
	})
	assert.ErrorIs(t, err, ledger.ErrValidation, "negative breakdown field")
}

func TestCloseShift_SecondCloseForSameWaiterAndDate_Rejected(t *testing.T) {
	// GIVEN: Asha already closed her shift for 2025-05-01
	// WHEN:  a second close for the same waiter and date arrives
	// THEN:  it is rejected; the first record is untouched

	e := newTestEngine(t)
	closeShift(t, e, "Asha", "2025-05-01", 10000, ledger.PaymentBreakdown{})

	_, err := e.CloseShift(context.Background(), ledger.CloseShiftInput{
		WaiterName: "asha", // case-insensitive match
		Date:       ledger.MustParseDate("2025-05-01"),
		TotalSales: amt(5000),
	})
	assert.ErrorIs(t, err, ledger.ErrShiftAlreadyClosed)

	records, err := e.Store().ShiftRecordsByDate(context.Background(), ledger.MustParseDate("2025-05-01"))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCloseShift_SameWaiterDifferentDate_Allowed(t *testing.T) {
	e := newTestEngine(t)
	closeShift(t, e, "Asha", "2025-05-01", 10000, ledger.PaymentBreakdown{})
	closeShift(t, e, "Asha", "2025-05-02", 12000, ledger.PaymentBreakdown{})
}

func TestCloseShift_ClosedDay_Rejected(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	date := ledger.MustParseDate("2025-05-01")

	closeShift(t, e, "Asha", "2025-05-01", 10000, ledger.PaymentBreakdown{})
	require.NoError(t, e.CloseDay(ctx, date))

	_, err := e.CloseShift(ctx, ledger.CloseShiftInput{
		WaiterName: "Juma", Date: date, TotalSales: amt(8000),
	})
	assert.ErrorIs(t, err, ledger.ErrDayClosed)
}
