/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Durable storage for the five ledgers and two date sets. The reconciliation
  engine never sees SQL; it talks to the ledger.Store interface and this
  package keeps the mutation contract honest at the schema level.

MUTATION CONTRACT ENFORCEMENT:
  - shift_records and paid_bill_entries: INSERT only, no UPDATE or DELETE
  - signed_bill_entries: INSERT plus a single-column amount UPDATE (the
    merge rule), with a UNIQUE (date, customer_id) index backing the
    one-entry-per-customer-per-date invariant
  - attendants / customers: name_key column holds the lowercased name with a
    UNIQUE index, backing case-insensitive uniqueness
  - closed_dates / finalized_credit_dates: INSERT OR IGNORE, so marking a
    date twice stays idempotent

AMOUNTS:
  All amounts are stored as decimal strings and parsed back through
  shopspring/decimal. No floating point touches the database.

WAL MODE:
  Opened with WAL for better concurrency and crash recovery. A sync.RWMutex
  serializes writers, matching the single-terminal assumption.

USAGE:
  st, err := sqlite.New("./data/ledger.db")   // or ":memory:"
  engine := ledger.NewEngine(st)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/smartcash/shift-ledger/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Shift records (append-only)
	CREATE TABLE IF NOT EXISTS shift_records (
		id TEXT PRIMARY KEY,
		waiter_name TEXT NOT NULL,
		date TEXT NOT NULL,
		total_sales TEXT NOT NULL,
		crdb TEXT NOT NULL,
		stanbic TEXT NOT NULL,
		mpesa TEXT NOT NULL,
		signed_bill TEXT NOT NULL,
		discount TEXT NOT NULL,
		cancellation TEXT NOT NULL,
		calculated_cash TEXT NOT NULL,
		overpayment_amount TEXT NOT NULL,
		overpayment_method TEXT,
		overpayment_remarks TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_shift_records_date ON shift_records(date);
	-- One shift close per waiter per date
	CREATE UNIQUE INDEX IF NOT EXISTS idx_shift_records_waiter_date
		ON shift_records(LOWER(waiter_name), date);

	-- Attendant roster
	CREATE TABLE IF NOT EXISTS attendants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	-- Customer registry
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	-- Signed bills (credit ledger); one entry per (date, customer)
	CREATE TABLE IF NOT EXISTS signed_bill_entries (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		amount TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_signed_bills_date_customer
		ON signed_bill_entries(date, customer_id);
	CREATE INDEX IF NOT EXISTS idx_signed_bills_date ON signed_bill_entries(date);

	-- Paid bills (append-only)
	CREATE TABLE IF NOT EXISTS paid_bill_entries (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		payer_type TEXT NOT NULL,
		payer_name TEXT NOT NULL,
		received_from_waiter TEXT NOT NULL,
		amount TEXT NOT NULL,
		method TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_paid_bills_date ON paid_bill_entries(date);

	-- Day-closing and credit-finalization sets
	CREATE TABLE IF NOT EXISTS closed_dates (
		date TEXT PRIMARY KEY,
		closed_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS finalized_credit_dates (
		date TEXT PRIMARY KEY,
		finalized_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SHIFT RECORDS
// =============================================================================

func (s *Store) AppendShiftRecord(ctx context.Context, rec ledger.ShiftRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO shift_records
		(id, waiter_name, date, total_sales, crdb, stanbic, mpesa, signed_bill,
		 discount, cancellation, calculated_cash, overpayment_amount,
		 overpayment_method, overpayment_remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.WaiterName,
		rec.Date.String(),
		rec.TotalSales.String(),
		rec.Breakdown.CRDB.String(),
		rec.Breakdown.Stanbic.String(),
		rec.Breakdown.MPesa.String(),
		rec.Breakdown.SignedBill.String(),
		rec.Breakdown.Discount.String(),
		rec.Breakdown.Cancellation.String(),
		rec.CalculatedCash.String(),
		rec.OverpaymentAmount.String(),
		rec.OverpaymentMethod,
		rec.OverpaymentRemarks,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ledger.ErrShiftAlreadyClosed
		}
		return fmt.Errorf("failed to append shift record: %w", err)
	}
	return nil
}

func (s *Store) ShiftRecordsByDate(ctx context.Context, date ledger.Date) ([]ledger.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := shiftSelect + ` WHERE date = ? ORDER BY created_at ASC`
	return s.queryShiftRecords(ctx, query, date.String())
}

func (s *Store) ShiftRecordsInRange(ctx context.Context, from, to ledger.Date) ([]ledger.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := shiftSelect + ` WHERE date >= ? AND date <= ? ORDER BY date ASC, created_at ASC`
	return s.queryShiftRecords(ctx, query, from.String(), to.String())
}

const shiftSelect = `
	SELECT id, waiter_name, date, total_sales, crdb, stanbic, mpesa, signed_bill,
	       discount, cancellation, calculated_cash, overpayment_amount,
	       overpayment_method, overpayment_remarks, created_at
	FROM shift_records`

func (s *Store) queryShiftRecords(ctx context.Context, query string, args ...any) ([]ledger.ShiftRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift records: %w", err)
	}
	defer rows.Close()

	var records []ledger.ShiftRecord
	for rows.Next() {
		rec, err := scanShiftRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanShiftRecord(rows *sql.Rows) (ledger.ShiftRecord, error) {
	var (
		rec                                       ledger.ShiftRecord
		dateStr, createdStr                       string
		sales, crdb, stanbic, mpesa, signedBill   string
		discount, cancellation, cash, overpayment string
		overpaymentMethod, overpaymentRemarks     sql.NullString
	)
	err := rows.Scan(&rec.ID, &rec.WaiterName, &dateStr, &sales, &crdb, &stanbic,
		&mpesa, &signedBill, &discount, &cancellation, &cash, &overpayment,
		&overpaymentMethod, &overpaymentRemarks, &createdStr)
	if err != nil {
		return ledger.ShiftRecord{}, fmt.Errorf("failed to scan shift record: %w", err)
	}

	if rec.Date, err = ledger.ParseDate(dateStr); err != nil {
		return ledger.ShiftRecord{}, err
	}
	for _, field := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{sales, &rec.TotalSales},
		{crdb, &rec.Breakdown.CRDB},
		{stanbic, &rec.Breakdown.Stanbic},
		{mpesa, &rec.Breakdown.MPesa},
		{signedBill, &rec.Breakdown.SignedBill},
		{discount, &rec.Breakdown.Discount},
		{cancellation, &rec.Breakdown.Cancellation},
		{cash, &rec.CalculatedCash},
		{overpayment, &rec.OverpaymentAmount},
	} {
		if *field.dst, err = decimal.NewFromString(field.raw); err != nil {
			return ledger.ShiftRecord{}, fmt.Errorf("bad amount %q: %w", field.raw, err)
		}
	}
	rec.OverpaymentMethod = overpaymentMethod.String
	rec.OverpaymentRemarks = overpaymentRemarks.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return rec, nil
}

// =============================================================================
// ATTENDANTS
// =============================================================================

func (s *Store) AppendAttendant(ctx context.Context, a ledger.Attendant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendants (id, name, name_key, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Name, nameKey(a.Name), a.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueConstraintError(err) {
			return &ledger.DuplicateNameError{Kind: "attendant", Name: a.Name}
		}
		return fmt.Errorf("failed to append attendant: %w", err)
	}
	return nil
}

func (s *Store) DeleteAttendant(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Shift records referencing the attendant's name are deliberately left
	// untouched.
	_, err := s.db.ExecContext(ctx, `DELETE FROM attendants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendant: %w", err)
	}
	return nil
}

func (s *Store) Attendants(ctx context.Context) ([]ledger.Attendant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM attendants ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendants: %w", err)
	}
	defer rows.Close()

	var result []ledger.Attendant
	for rows.Next() {
		var a ledger.Attendant
		var createdStr string
		if err := rows.Scan(&a.ID, &a.Name, &createdStr); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *Store) FindAttendantByName(ctx context.Context, name string) (*ledger.Attendant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a ledger.Attendant
	var createdStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM attendants WHERE name_key = ?`,
		nameKey(name)).Scan(&a.ID, &a.Name, &createdStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find attendant: %w", err)
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return &a, nil
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (s *Store) AppendCustomer(ctx context.Context, c ledger.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, name_key, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, nameKey(c.Name), c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueConstraintError(err) {
			return &ledger.DuplicateNameError{Kind: "customer", Name: c.Name}
		}
		return fmt.Errorf("failed to append customer: %w", err)
	}
	return nil
}

func (s *Store) Customers(ctx context.Context) ([]ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var result []ledger.Customer
	for rows.Next() {
		var c ledger.Customer
		var createdStr string
		if err := rows.Scan(&c.ID, &c.Name, &createdStr); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) FindCustomerByName(ctx context.Context, name string) (*ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c ledger.Customer
	var createdStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM customers WHERE name_key = ?`,
		nameKey(name)).Scan(&c.ID, &c.Name, &createdStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return &c, nil
}

// =============================================================================
// SIGNED BILLS
// =============================================================================

func (s *Store) AppendSignedBill(ctx context.Context, e ledger.SignedBillEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO signed_bill_entries (id, date, customer_id, customer_name, amount)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), e.CustomerID, e.CustomerName, e.Amount.String())
	if err != nil {
		return fmt.Errorf("failed to append signed bill: %w", err)
	}
	return nil
}

func (s *Store) UpdateSignedBillAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE signed_bill_entries SET amount = ? WHERE id = ?`,
		amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update signed bill: %w", err)
	}
	return nil
}

func (s *Store) SignedBillsByDate(ctx context.Context, date ledger.Date) ([]ledger.SignedBillEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, customer_id, customer_name, amount
		 FROM signed_bill_entries WHERE date = ? ORDER BY customer_name ASC`,
		date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query signed bills: %w", err)
	}
	defer rows.Close()

	var result []ledger.SignedBillEntry
	for rows.Next() {
		var e ledger.SignedBillEntry
		var dateStr, amountStr string
		if err := rows.Scan(&e.ID, &dateStr, &e.CustomerID, &e.CustomerName, &amountStr); err != nil {
			return nil, err
		}
		if e.Date, err = ledger.ParseDate(dateStr); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("bad amount %q: %w", amountStr, err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// =============================================================================
// PAID BILLS
// =============================================================================

func (s *Store) AppendPaidBill(ctx context.Context, e ledger.PaidBillEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO paid_bill_entries
		 (id, date, payer_type, payer_name, received_from_waiter, amount, method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), string(e.PayerType), e.PayerName,
		e.ReceivedFromWaiter, e.Amount.String(), string(e.Method),
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to append paid bill: %w", err)
	}
	return nil
}

func (s *Store) PaidBillsByDate(ctx context.Context, date ledger.Date) ([]ledger.PaidBillEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryPaidBills(ctx,
		paidBillSelect+` WHERE date = ? ORDER BY created_at ASC`, date.String())
}

func (s *Store) PaidBillsInRange(ctx context.Context, from, to ledger.Date) ([]ledger.PaidBillEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryPaidBills(ctx,
		paidBillSelect+` WHERE date >= ? AND date <= ? ORDER BY date ASC, created_at ASC`,
		from.String(), to.String())
}

const paidBillSelect = `
	SELECT id, date, payer_type, payer_name, received_from_waiter, amount, method, created_at
	FROM paid_bill_entries`

func (s *Store) queryPaidBills(ctx context.Context, query string, args ...any) ([]ledger.PaidBillEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query paid bills: %w", err)
	}
	defer rows.Close()

	var result []ledger.PaidBillEntry
	for rows.Next() {
		var e ledger.PaidBillEntry
		var dateStr, payerType, amountStr, method, createdStr string
		if err := rows.Scan(&e.ID, &dateStr, &payerType, &e.PayerName,
			&e.ReceivedFromWaiter, &amountStr, &method, &createdStr); err != nil {
			return nil, err
		}
		if e.Date, err = ledger.ParseDate(dateStr); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("bad amount %q: %w", amountStr, err)
		}
		e.PayerType = ledger.PayerType(payerType)
		e.Method = ledger.PaymentMethod(method)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		result = append(result, e)
	}
	return result, rows.Err()
}

// =============================================================================
// DATE SETS
// =============================================================================

func (s *Store) MarkDayClosed(ctx context.Context, date ledger.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO closed_dates (date, closed_at) VALUES (?, ?)`,
		date.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to mark day closed: %w", err)
	}
	return nil
}

func (s *Store) IsDayClosed(ctx context.Context, date ledger.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM closed_dates WHERE date = ?`, date.String()).Scan(&count)
	return count > 0, err
}

func (s *Store) ClosedDates(ctx context.Context) ([]ledger.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT date FROM closed_dates ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed dates: %w", err)
	}
	defer rows.Close()

	var result []ledger.Date
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, err
		}
		d, err := ledger.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *Store) MarkCreditFinalized(ctx context.Context, date ledger.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO finalized_credit_dates (date, finalized_at) VALUES (?, ?)`,
		date.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to mark credit finalized: %w", err)
	}
	return nil
}

func (s *Store) IsCreditFinalized(ctx context.Context, date ledger.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM finalized_credit_dates WHERE date = ?`, date.String()).Scan(&count)
	return count > 0, err
}

// =============================================================================
// HELPERS
// =============================================================================

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
