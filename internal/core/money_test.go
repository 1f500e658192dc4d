package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"150", 15000, false},
		{".5", 50, false},
		{"0", 0, true},
		{"", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFromRupees(t *testing.T) {
	if m, err := FromRupees(150.5); err != nil || m.Cents != 15050 {
		t.Fatalf("got %v, %v", m, err)
	}
	for _, v := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := FromRupees(v); err == nil {
			t.Fatalf("expected error for %v", v)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	raw, err := json.Marshal(Money{Cents: 15050})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "150.5" {
		t.Fatalf("got %s, want 150.5", raw)
	}

	var m Money
	if err := json.Unmarshal([]byte("30000"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 3000000 {
		t.Fatalf("got %d cents", m.Cents)
	}

	// Garbage decodes as zero rather than failing the whole document.
	if err := json.Unmarshal([]byte(`"lots"`), &m); err != nil {
		t.Fatalf("tolerant unmarshal: %v", err)
	}
	if m.Cents != 0 {
		t.Fatalf("expected zero for garbage input, got %d", m.Cents)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 10000}
	b := Money{Cents: 35000}
	if a.Add(b).Cents != 45000 {
		t.Fatal("add")
	}
	if a.Sub(b).Cents != -25000 {
		t.Fatal("sub may go negative")
	}
	if !a.IsPositive() || (Money{}).IsPositive() {
		t.Fatal("positivity")
	}
}
