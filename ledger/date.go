package ledger

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar-day value type
// =============================================================================

// Date is a calendar day with no time-of-day component. Dates key every
// ledger: shift records, signed bills, paid bills, and the closed-date and
// finalized-credit-date sets.
type Date struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MustParseDate is for tests and literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Next returns the calendar-correct following day, including month and year
// rollover (2025-01-31 -> 2025-02-01, 2025-12-31 -> 2026-01-01).
func (d Date) Next() Date {
	return Date{Time: d.normalize().AddDate(0, 0, 1)}
}

// Comparison
func (d Date) Before(other Date) bool { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool  { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool  { return d.normalize().Equal(other.normalize()) }

// InRange reports whether d falls within [from, to] inclusive.
func (d Date) InRange(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}

func (d Date) IsZero() bool { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format(dateLayout) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}
