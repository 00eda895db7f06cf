/*
store.go - Persistence interface for the five ledgers and two date sets

PURPOSE:
  Defines the boundary between the reconciliation engine and durable storage.
  The engine operates on snapshots returned by the Store and writes through
  narrow append/update primitives; how records survive process restart is
  entirely the Store's concern.

MUTATION CONTRACT:
  - Shift records and paid bills: append-only. No update, no delete.
  - Signed bills: append plus a single amount update, used only to merge a
    repeat entry for the same (date, customer).
  - Attendants: append and delete. Deleting never touches shift records.
  - Closed-date / finalized-credit-date sets: add-only, idempotent.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - ledger/store: in-memory store for tests and dev mode
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is the ledger persistence boundary. Find methods return (nil, nil)
// when nothing matches; name lookups are case-insensitive.
type Store interface {
	// Shift records (append-only)
	AppendShiftRecord(ctx context.Context, rec ShiftRecord) error
	ShiftRecordsByDate(ctx context.Context, date Date) ([]ShiftRecord, error)
	ShiftRecordsInRange(ctx context.Context, from, to Date) ([]ShiftRecord, error)

	// Attendants
	AppendAttendant(ctx context.Context, a Attendant) error
	DeleteAttendant(ctx context.Context, id string) error
	Attendants(ctx context.Context) ([]Attendant, error)
	FindAttendantByName(ctx context.Context, name string) (*Attendant, error)

	// Customers
	AppendCustomer(ctx context.Context, c Customer) error
	Customers(ctx context.Context) ([]Customer, error)
	FindCustomerByName(ctx context.Context, name string) (*Customer, error)

	// Signed bills (credit ledger)
	AppendSignedBill(ctx context.Context, e SignedBillEntry) error
	UpdateSignedBillAmount(ctx context.Context, id string, amount decimal.Decimal) error
	SignedBillsByDate(ctx context.Context, date Date) ([]SignedBillEntry, error)

	// Paid bills (append-only)
	AppendPaidBill(ctx context.Context, e PaidBillEntry) error
	PaidBillsByDate(ctx context.Context, date Date) ([]PaidBillEntry, error)
	PaidBillsInRange(ctx context.Context, from, to Date) ([]PaidBillEntry, error)

	// Day-closing state
	MarkDayClosed(ctx context.Context, date Date) error
	IsDayClosed(ctx context.Context, date Date) (bool, error)
	ClosedDates(ctx context.Context) ([]Date, error)

	// Credit finalization state
	MarkCreditFinalized(ctx context.Context, date Date) error
	IsCreditFinalized(ctx context.Context, date Date) (bool, error)
}
