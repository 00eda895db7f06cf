// Package store provides an in-memory ledger.Store for tests and dev mode.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/smartcash/shift-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	shifts      []ledger.ShiftRecord
	attendants  []ledger.Attendant
	customers   []ledger.Customer
	signedBills []ledger.SignedBillEntry
	paidBills   []ledger.PaidBillEntry
	closedDates map[string]bool
	finalizedSB map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		closedDates: make(map[string]bool),
		finalizedSB: make(map[string]bool),
	}
}

// -----------------------------------------------------------------------------
// Shift records
// -----------------------------------------------------------------------------

func (m *Memory) AppendShiftRecord(_ context.Context, rec ledger.ShiftRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts = append(m.shifts, rec)
	return nil
}

func (m *Memory) ShiftRecordsByDate(_ context.Context, date ledger.Date) ([]ledger.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ledger.ShiftRecord
	for _, r := range m.shifts {
		if r.Date.Equal(date) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Memory) ShiftRecordsInRange(_ context.Context, from, to ledger.Date) ([]ledger.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ledger.ShiftRecord
	for _, r := range m.shifts {
		if r.Date.InRange(from, to) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// -----------------------------------------------------------------------------
// Attendants
// -----------------------------------------------------------------------------

func (m *Memory) AppendAttendant(_ context.Context, a ledger.Attendant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendants = append(m.attendants, a)
	return nil
}

func (m *Memory) DeleteAttendant(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.attendants {
		if a.ID == id {
			m.attendants = append(m.attendants[:i], m.attendants[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory) Attendants(_ context.Context) ([]ledger.Attendant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Attendant, len(m.attendants))
	copy(result, m.attendants)
	return result, nil
}

func (m *Memory) FindAttendantByName(_ context.Context, name string) (*ledger.Attendant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.attendants {
		if strings.EqualFold(a.Name, name) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

// -----------------------------------------------------------------------------
// Customers
// -----------------------------------------------------------------------------

func (m *Memory) AppendCustomer(_ context.Context, c ledger.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers = append(m.customers, c)
	return nil
}

func (m *Memory) Customers(_ context.Context) ([]ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Customer, len(m.customers))
	copy(result, m.customers)
	return result, nil
}

func (m *Memory) FindCustomerByName(_ context.Context, name string) (*ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.customers {
		if strings.EqualFold(c.Name, name) {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

// -----------------------------------------------------------------------------
// Signed bills
// -----------------------------------------------------------------------------

func (m *Memory) AppendSignedBill(_ context.Context, e ledger.SignedBillEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signedBills = append(m.signedBills, e)
	return nil
}

func (m *Memory) UpdateSignedBillAmount(_ context.Context, id string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.signedBills {
		if e.ID == id {
			m.signedBills[i].Amount = amount
			return nil
		}
	}
	return nil
}

func (m *Memory) SignedBillsByDate(_ context.Context, date ledger.Date) ([]ledger.SignedBillEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ledger.SignedBillEntry
	for _, e := range m.signedBills {
		if e.Date.Equal(date) {
			result = append(result, e)
		}
	}
	return result, nil
}

// -----------------------------------------------------------------------------
// Paid bills
// -----------------------------------------------------------------------------

func (m *Memory) AppendPaidBill(_ context.Context, e ledger.PaidBillEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paidBills = append(m.paidBills, e)
	return nil
}

func (m *Memory) PaidBillsByDate(_ context.Context, date ledger.Date) ([]ledger.PaidBillEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ledger.PaidBillEntry
	for _, e := range m.paidBills {
		if e.Date.Equal(date) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *Memory) PaidBillsInRange(_ context.Context, from, to ledger.Date) ([]ledger.PaidBillEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ledger.PaidBillEntry
	for _, e := range m.paidBills {
		if e.Date.InRange(from, to) {
			result = append(result, e)
		}
	}
	return result, nil
}

// -----------------------------------------------------------------------------
// Date sets
// -----------------------------------------------------------------------------

func (m *Memory) MarkDayClosed(_ context.Context, date ledger.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closedDates[date.String()] = true
	return nil
}

func (m *Memory) IsDayClosed(_ context.Context, date ledger.Date) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closedDates[date.String()], nil
}

func (m *Memory) ClosedDates(_ context.Context) ([]ledger.Date, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Date, 0, len(m.closedDates))
	for s := range m.closedDates {
		d, err := ledger.ParseDate(s)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result, nil
}

func (m *Memory) MarkCreditFinalized(_ context.Context, date ledger.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalizedSB[date.String()] = true
	return nil
}

func (m *Memory) IsCreditFinalized(_ context.Context, date ledger.Date) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.finalizedSB[date.String()], nil
}
