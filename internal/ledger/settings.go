package ledger

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// BankAmount returns the baseline balance and whether it has been set.
func (l *Ledger) BankAmount() (core.Money, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bank, l.bankSet
}

// SetBankAmount stores the baseline balance. It can only be set once; the
// input must be a decimal number.
func (l *Ledger) SetBankAmount(ctx context.Context, raw string) (core.Money, error) {
	m, err := core.ParseBalance(raw)
	if err != nil {
		return core.Money{}, &core.ValidationError{Field: "bank_amount", Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bankSet {
		return l.bank, ErrBankAmountSet
	}
	if err := l.store.Set(ctx, kv.KeyBankAmount, m.Decimal().String()); err != nil {
		return core.Money{}, fmt.Errorf("write %s: %w", kv.KeyBankAmount, err)
	}
	l.bank, l.bankSet = m, true
	l.version++
	return m, nil
}

// Theme returns the stored theme, light when unset or unrecognized.
func (l *Ledger) Theme(ctx context.Context) (core.Theme, error) {
	raw, ok, err := l.store.Get(ctx, kv.KeyTheme)
	if err != nil {
		return core.ThemeLight, fmt.Errorf("read %s: %w", kv.KeyTheme, err)
	}
	if !ok {
		return core.ThemeLight, nil
	}
	if core.Theme(strings.TrimSpace(raw)) == core.ThemeDark {
		return core.ThemeDark, nil
	}
	return core.ThemeLight, nil
}

func (l *Ledger) SetTheme(ctx context.Context, theme core.Theme) error {
	theme, err := core.ParseTheme(string(theme))
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, kv.KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("write %s: %w", kv.KeyTheme, err)
	}
	return nil
}
