package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"0.01", 1, true},
		{"1.005", 101, true},
		{" 5000 ", 500000, true},
		{"", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"+3", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"100000000000000000000", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tc.in, err)
			}
			if m.Cents != tc.cents {
				t.Fatalf("%q: got %d want %d", tc.in, m.Cents, tc.cents)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestMoneyFromFloat(t *testing.T) {
	if got := MoneyFromFloat(4995739.6012).Cents; got != 499573960 {
		t.Fatalf("got %d", got)
	}
}

func TestMoneyPercent(t *testing.T) {
	income := Money{Cents: 7500000}
	if income.Percent(50).Cents != 3750000 || income.Percent(30).Cents != 2250000 || income.Percent(20).Cents != 1500000 {
		t.Fatalf("unexpected split for %d", income.Cents)
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 120000000}).String(); !strings.Contains(got, "1,200,000.00") {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: 123456}).Rounded(); !strings.HasSuffix(got, "1,235") {
		t.Fatalf("got %q", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 1234})
	if err != nil || string(out) != "12.34" {
		t.Fatalf("marshal got %s, %v", out, err)
	}
	var m Money
	if err := json.Unmarshal([]byte(`"99.5"`), &m); err != nil || m.Cents != 9950 {
		t.Fatalf("string form: %d, %v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`250`), &m); err != nil || m.Cents != 25000 {
		t.Fatalf("number form: %d, %v", m.Cents, err)
	}

	for _, raw := range []string{`100000000000000000000`, `"-100000000000000000000"`, `1e30`} {
		m = Money{Cents: 7}
		if err := json.Unmarshal([]byte(raw), &m); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s: expected ErrInvalidAmount, got %v", raw, err)
		}
		if m.Cents != 7 {
			t.Fatalf("%s: value overwritten with %d", raw, m.Cents)
		}
	}
	var neg Money
	if err := json.Unmarshal([]byte(`-5`), &neg); err != nil || neg.Cents != -500 {
		t.Fatalf("negative amounts are left to Validate: %d, %v", neg.Cents, err)
	}
}
