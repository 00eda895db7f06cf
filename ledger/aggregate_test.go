package ledger_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcash/shift-ledger/ledger"
)

// =============================================================================
// FIXTURES
// =============================================================================

func sampleRecords() []ledger.ShiftRecord {
	date := ledger.MustParseDate("2025-05-01")
	mk := func(waiter string, sales, cash, crdb, stanbic, mpesa, sb, disc, canc, over int64) ledger.ShiftRecord {
		return ledger.ShiftRecord{
			ID:         waiter,
			WaiterName: waiter,
			Date:       date,
			TotalSales: amt(sales),
			Breakdown: ledger.PaymentBreakdown{
				CRDB: amt(crdb), Stanbic: amt(stanbic), MPesa: amt(mpesa),
				SignedBill: amt(sb), Discount: amt(disc), Cancellation: amt(canc),
			},
			CalculatedCash:    amt(cash),
			OverpaymentAmount: amt(over),
			CreatedAt:         time.Now().UTC(),
		}
	}
	return []ledger.ShiftRecord{
		mk("Asha", 100000, 65000, 20000, 0, 10000, 5000, 0, 0, 0),
		mk("Juma", 80000, 50000, 10000, 5000, 10000, 3000, 2000, 0, 0),
		mk("Neema", 50000, 0, 60000, 0, 0, 0, 0, 0, 10000),
		mk("Baraka", 30000, 27500, 0, 0, 0, 2000, 0, 500, 0),
	}
}

// =============================================================================
// ORDER INDEPENDENCE
// =============================================================================

func TestSumShiftTotals_OrderIndependent(t *testing.T) {
	// GIVEN: a fixed set of shift records
	// WHEN:  they are summed in many shuffled orders
	// THEN:  every permutation yields identical totals

	records := sampleRecords()
	want := ledger.SumShiftTotals(records)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		shuffled := make([]ledger.ShiftRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := ledger.SumShiftTotals(shuffled)
		assert.True(t, got.Sales.Equal(want.Sales))
		assert.True(t, got.Cash.Equal(want.Cash))
		assert.True(t, got.CRDB.Equal(want.CRDB))
		assert.True(t, got.Stanbic.Equal(want.Stanbic))
		assert.True(t, got.MPesa.Equal(want.MPesa))
		assert.True(t, got.SignedBill.Equal(want.SignedBill))
		assert.True(t, got.Discount.Equal(want.Discount))
		assert.True(t, got.Cancellation.Equal(want.Cancellation))
		assert.True(t, got.Overpayments.Equal(want.Overpayments))
	}
}

func TestSumRepayments_OrderIndependent(t *testing.T) {
	entries := []ledger.PaidBillEntry{
		{Method: ledger.MethodCash, Amount: amt(5000)},
		{Method: ledger.MethodMPesa, Amount: amt(3000)},
		{Method: ledger.MethodCash, Amount: amt(2000)},
		{Method: ledger.MethodStanbic, Amount: amt(1500)},
		{Method: ledger.MethodCRDB, Amount: amt(4000)},
	}
	want := ledger.SumRepayments(entries)

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 20; i++ {
		shuffled := make([]ledger.PaidBillEntry, len(entries))
		copy(shuffled, entries)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := ledger.SumRepayments(shuffled)
		assert.True(t, got.Cash.Equal(want.Cash))
		assert.True(t, got.MPesa.Equal(want.MPesa))
		assert.True(t, got.Stanbic.Equal(want.Stanbic))
		assert.True(t, got.CRDB.Equal(want.CRDB))
	}
}

// =============================================================================
// VALUES
// =============================================================================

func TestSumShiftTotals_EmptyInput_AllZero(t *testing.T) {
	totals := ledger.SumShiftTotals(nil)

	assert.True(t, totals.Sales.IsZero())
	assert.True(t, totals.Cash.IsZero())
	assert.True(t, totals.SignedBill.IsZero())
	assert.True(t, totals.Overpayments.IsZero())
}

func TestCreditTarget_SumsSignedBillChannel(t *testing.T) {
	target := ledger.CreditTarget(sampleRecords())
	assert.True(t, target.Equal(amt(10000)), "5000+3000+0+2000, got %s", target)
}

func TestSumRepayments_BreaksOutByMethod(t *testing.T) {
	entries := []ledger.PaidBillEntry{
		{Method: ledger.MethodCash, Amount: amt(5000)},
		{Method: ledger.MethodCash, Amount: amt(2000)},
		{Method: ledger.MethodMPesa, Amount: amt(3000)},
	}

	totals := ledger.SumRepayments(entries)

	assert.True(t, totals.Cash.Equal(amt(7000)))
	assert.True(t, totals.MPesa.Equal(amt(3000)))
	assert.True(t, totals.Stanbic.IsZero())
	assert.True(t, totals.Total().Equal(amt(10000)))
}

func TestCashOnHand_AddsCashRepaymentsToShiftCash(t *testing.T) {
	// Shift cash 65000+50000+0+27500 = 142500; cash repayments 7000.
	records := sampleRecords()
	repayments := []ledger.PaidBillEntry{
		{Method: ledger.MethodCash, Amount: amt(5000)},
		{Method: ledger.MethodCash, Amount: amt(2000)},
		{Method: ledger.MethodMPesa, Amount: amt(9999)}, // not cash, excluded
	}

	onHand := ledger.CashOnHand(records, repayments)
	assert.True(t, onHand.Equal(amt(149500)), "got %s", onHand)
}

// =============================================================================
// ENGINE QUERIES
// =============================================================================

func TestRangeTotals_SelectsInclusiveRange(t *testing.T) {
	e := newTestEngine(t)
	closeShift(t, e, "Asha", "2025-04-30", 10000, ledger.PaymentBreakdown{})
	closeShift(t, e, "Asha", "2025-05-01", 20000, ledger.PaymentBreakdown{})
	closeShift(t, e, "Asha", "2025-05-02", 30000, ledger.PaymentBreakdown{})
	closeShift(t, e, "Asha", "2025-05-03", 40000, ledger.PaymentBreakdown{})

	totals, err := e.RangeTotals(context.Background(),
		ledger.MustParseDate("2025-05-01"), ledger.MustParseDate("2025-05-02"))
	require.NoError(t, err)

	assert.True(t, totals.Sales.Equal(amt(50000)), "got %s", totals.Sales)
}

func TestDayTotals_MatchesPureSum(t *testing.T) {
	e := newTestEngine(t)
	closeShift(t, e, "Asha", "2025-05-01", 100000,
		ledger.PaymentBreakdown{CRDB: amt(20000), MPesa: amt(10000), SignedBill: amt(5000)})
	closeShift(t, e, "Juma", "2025-05-01", 50000, ledger.PaymentBreakdown{Stanbic: amt(50000)})

	totals, err := e.DayTotals(context.Background(), ledger.MustParseDate("2025-05-01"))
	require.NoError(t, err)

	assert.True(t, totals.Sales.Equal(amt(150000)))
	assert.True(t, totals.Cash.Equal(amt(65000)))
	assert.True(t, totals.SignedBill.Equal(amt(5000)))
}

func TestCashOnHandFor_CombinesLedgers(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	closeShift(t, e, "Asha", "2025-05-01", 100000, ledger.PaymentBreakdown{CRDB: amt(40000)})

	_, err := e.RecordRepayment(ctx, ledger.RecordRepaymentInput{
		Date:               ledger.MustParseDate("2025-05-01"),
		PayerType:          ledger.PayerCustomer,
		PayerName:          "Mteja A",
		ReceivedFromWaiter: "Asha",
		Amount:             amt(15000),
		Method:             ledger.MethodCash,
	})
	require.NoError(t, err)

	onHand, err := e.CashOnHandFor(ctx, ledger.MustParseDate("2025-05-01"))
	require.NoError(t, err)
	assert.True(t, onHand.Equal(amt(75000)), "60000 shift cash + 15000 cash repayment, got %s", onHand)
}
