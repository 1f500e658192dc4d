package ledger

import (
	"testing"
	"time"
)

func TestCursorPreviousRollsYear(t *testing.T) {
	c := Cursor{Year: 2026, Month: time.January}
	got := c.Previous()
	if got != (Cursor{Year: 2025, Month: time.December}) {
		t.Fatalf("got %+v", got)
	}
	if (Cursor{Year: 2026, Month: time.March}).Previous() != (Cursor{Year: 2026, Month: time.February}) {
		t.Fatal("mid-year previous")
	}
}

func TestCursorNextRollsYear(t *testing.T) {
	c := Cursor{Year: 2025, Month: time.December}
	if c.Next() != (Cursor{Year: 2026, Month: time.January}) {
		t.Fatalf("got %+v", c.Next())
	}
	if (Cursor{Year: 2026, Month: time.February}).Next() != (Cursor{Year: 2026, Month: time.March}) {
		t.Fatal("mid-year next")
	}
}

func TestCursorBefore(t *testing.T) {
	cases := []struct {
		a, b Cursor
		want bool
	}{
		{Cursor{2026, time.July}, Cursor{2026, time.August}, true},
		{Cursor{2025, time.December}, Cursor{2026, time.January}, true},
		{Cursor{2026, time.August}, Cursor{2026, time.August}, false},
		{Cursor{2026, time.September}, Cursor{2026, time.August}, false},
	}
	for i, tc := range cases {
		if got := tc.a.Before(tc.b); got != tc.want {
			t.Fatalf("case %d: got %v", i, got)
		}
	}
}

func TestCursorLabel(t *testing.T) {
	c := Cursor{Year: 2026, Month: time.January}
	if c.Label() != "January 2026" {
		t.Fatalf("got %q", c.Label())
	}
}

func TestCursorFor(t *testing.T) {
	now := time.Date(2026, time.August, 28, 23, 59, 0, 0, time.UTC)
	if CursorFor(now) != (Cursor{Year: 2026, Month: time.August}) {
		t.Fatalf("got %+v", CursorFor(now))
	}
}
