package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.345", 1235, true},
		{"1,000", 100000, true},
		{"1,000.50", 100050, true},
		{"12,345", 1234500, true},
		{"1,234,567.89", 123456789, true},
		{"10,5", 1050, true},
		{"1,00,000", 0, false},
		{"1,000,5", 0, false},
		{"1.000,50", 0, false},
		{"1,2,3", 0, false},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"   ", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseBalance(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"500", 50000, true},
		{"0", 0, true},
		{"-12.5", -1250, true},
		{"1,500", 150000, true},
		{"-1,500.25", -150025, true},
		{"1,5", 150, true},
		{"1.500,00", 0, false},
		{"", 0, false},
		{"  ", 0, false},
		{"lots", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseBalance(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidBankAmount) {
			t.Fatalf("%q expected ErrInvalidBankAmount, got %v", tc.in, err)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 20000})
	if err != nil || string(b) != "200" {
		t.Fatalf("marshal 200: got %s err=%v", b, err)
	}
	b, _ = json.Marshal(Money{Cents: 1250})
	if string(b) != "12.5" {
		t.Fatalf("marshal 12.5: got %s", b)
	}

	// The persisted layout stores bare numbers; older blobs may hold floats.
	for in, want := range map[string]int64{`1000`: 100000, `19.99`: 1999, `"7.5"`: 750} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err != nil || m.Cents != want {
			t.Fatalf("unmarshal %s: got %d err=%v", in, m.Cents, err)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 115000}).String(); got != "1150.00" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: -5}).String(); got != "-0.05" {
		t.Fatalf("got %q", got)
	}
}
