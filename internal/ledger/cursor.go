package ledger

import (
	"fmt"
	"time"
)

// Cursor is the month the ledger is currently looking at. Transient, never
// persisted. It never points past the real current calendar month.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorFor returns the cursor for t's calendar month.
func CursorFor(t time.Time) Cursor {
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// Previous returns the cursor one calendar month back, rolling the year
// boundary (January to December of the previous year).
func (c Cursor) Previous() Cursor {
	if c.Month == time.January {
		return Cursor{Year: c.Year - 1, Month: time.December}
	}
	return Cursor{Year: c.Year, Month: c.Month - 1}
}

// Next returns the cursor one calendar month forward, rolling the year
// boundary (December to January of the next year).
func (c Cursor) Next() Cursor {
	if c.Month == time.December {
		return Cursor{Year: c.Year + 1, Month: time.January}
	}
	return Cursor{Year: c.Year, Month: c.Month + 1}
}

// Before reports whether c is strictly earlier than o.
func (c Cursor) Before(o Cursor) bool {
	if c.Year != o.Year {
		return c.Year < o.Year
	}
	return c.Month < o.Month
}

// Label returns a human-readable month/year label, e.g. "January 2026".
func (c Cursor) Label() string {
	return fmt.Sprintf("%s %d", c.Month.String(), c.Year)
}
