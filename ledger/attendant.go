package ledger

import (
	"context"
	"strings"
)

// =============================================================================
// ATTENDANT ROSTER
// =============================================================================

// RegisterAttendant adds a waiter to the roster. Names are unique
// case-insensitively.
func (e *Engine) RegisterAttendant(ctx context.Context, name string) (*Attendant, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}

	existing, err := e.store.FindAttendantByName(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateNameError{Kind: "attendant", Name: trimmed}
	}

	a := Attendant{
		ID:        e.newID(),
		Name:      trimmed,
		CreatedAt: e.now(),
	}
	if err := e.store.AppendAttendant(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAttendant removes a waiter from the roster. Existing shift records
// referencing the name are left untouched.
func (e *Engine) DeleteAttendant(ctx context.Context, id string) error {
	return e.store.DeleteAttendant(ctx, id)
}

// RosterStatus derives each attendant's status for a date. A shift record
// for the attendant means CLOSED; a closed day without one means NO_SALES;
// otherwise PENDING. Status is computed here, never stored.
func (e *Engine) RosterStatus(ctx context.Context, date Date) ([]AttendantDayStatus, error) {
	attendants, err := e.store.Attendants(ctx)
	if err != nil {
		return nil, err
	}
	records, err := e.store.ShiftRecordsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	dayClosed, err := e.store.IsDayClosed(ctx, date)
	if err != nil {
		return nil, err
	}

	statuses := make([]AttendantDayStatus, 0, len(attendants))
	for _, a := range attendants {
		s := AttendantDayStatus{Attendant: a, Status: AttendantPending}
		for _, r := range records {
			if strings.EqualFold(r.WaiterName, a.Name) {
				s.Status = AttendantClosed
				s.Sales = r.TotalSales
				break
			}
		}
		if s.Status == AttendantPending && dayClosed {
			s.Status = AttendantNoSales
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}
