package ledger

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

func TestSetBankAmountOnce(t *testing.T) {
	ctx := context.Background()
	l, store := newLedger(t, nil)

	if _, ok := l.BankAmount(); ok {
		t.Fatalf("expected unset bank amount")
	}

	for _, bad := range []string{"", "   ", "a lot"} {
		if _, err := l.SetBankAmount(ctx, bad); !errors.Is(err, core.ErrInvalidBankAmount) || !errors.Is(err, core.ErrValidation) {
			t.Fatalf("%q: expected ErrInvalidBankAmount, got %v", bad, err)
		}
	}

	m, err := l.SetBankAmount(ctx, " 1234,50 ")
	if err != nil || m.Cents != 123450 {
		t.Fatalf("unexpected result %+v err=%v", m, err)
	}
	if raw, _, _ := store.Get(ctx, kv.KeyBankAmount); raw != "1234.5" {
		t.Fatalf("unexpected stored value %q", raw)
	}

	if _, err := l.SetBankAmount(ctx, "1"); !errors.Is(err, ErrBankAmountSet) {
		t.Fatalf("expected ErrBankAmountSet, got %v", err)
	}
	if got, _ := l.BankAmount(); got.Cents != 123450 {
		t.Fatalf("bank amount changed: %+v", got)
	}
}

func TestSetBankAmountThousandsSeparator(t *testing.T) {
	ctx := context.Background()
	l, store := newLedger(t, nil)

	if _, err := l.SetBankAmount(ctx, "1.500,00"); !errors.Is(err, core.ErrInvalidBankAmount) {
		t.Fatalf("expected ErrInvalidBankAmount, got %v", err)
	}
	if _, ok := l.BankAmount(); ok {
		t.Fatalf("rejected input must not set the bank amount")
	}

	m, err := l.SetBankAmount(ctx, "1,500")
	if err != nil || m.Cents != 150000 {
		t.Fatalf("expected 150000 cents, got %+v err=%v", m, err)
	}
	if raw, _, _ := store.Get(ctx, kv.KeyBankAmount); raw != "1500" {
		t.Fatalf("unexpected stored value %q", raw)
	}
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	l, store := newLedger(t, nil)

	if th, err := l.Theme(ctx); err != nil || th != core.ThemeLight {
		t.Fatalf("expected light default, got %q err=%v", th, err)
	}
	if err := l.SetTheme(ctx, "DARK"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if raw, _, _ := store.Get(ctx, kv.KeyTheme); raw != "dark" {
		t.Fatalf("unexpected stored theme %q", raw)
	}
	if th, _ := l.Theme(ctx); th != core.ThemeDark {
		t.Fatalf("expected dark, got %q", th)
	}
	if err := l.SetTheme(ctx, "sepia"); !errors.Is(err, core.ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}
