package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// IncomeCategory is the only category counted as income; every other
	// category is an expense.
	IncomeCategory = "Income"

	// FilterAll selects every transaction.
	FilterAll = "All"

	maxDescriptionLen = 200
)

// DefaultCategories is used when no category list is configured.
var DefaultCategories = Categories{
	IncomeCategory, "Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Other",
}

type (
	// Transaction is a single ledger record. Field names and JSON keys
	// match the persisted "transactions" blob.
	Transaction struct {
		ID       int64  `json:"id"`
		Date     string `json:"date"`
		Desc     string `json:"desc"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
	}

	// Draft carries the user-editable fields of a transaction.
	Draft struct {
		Date     string `json:"date"`
		Desc     string `json:"desc"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
	}

	Categories []string

	Theme string
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmptyDate          = errors.New("empty date")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = fmt.Errorf("description too long (max %d characters)", maxDescriptionLen)
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidBankAmount  = errors.New("bank amount must be a number")
	ErrInvalidTheme       = errors.New("theme must be dark or light")
)

// ValidationError names the offending field. It matches both ErrValidation
// and the underlying sentinel with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsIncome reports whether t counts towards income.
func (t Transaction) IsIncome() bool {
	return t.Category == IncomeCategory
}

// Draft returns the editable fields of t.
func (t Transaction) Draft() Draft {
	return Draft{Date: t.Date, Desc: t.Desc, Amount: t.Amount, Category: t.Category}
}

// ParseDraft builds a Draft from raw form values. Text fields are trimmed;
// only the amount is parsed here, everything else is checked by Validate.
func ParseDraft(date, desc, amount, category string) (Draft, error) {
	d := Draft{
		Date:     strings.TrimSpace(date),
		Desc:     strings.TrimSpace(desc),
		Category: strings.TrimSpace(category),
	}
	if strings.TrimSpace(amount) == "" {
		return d, invalid("amount", ErrInvalidAmount)
	}
	m, err := ParseAmount(amount)
	if err != nil {
		return d, invalid("amount", err)
	}
	d.Amount = m
	return d, nil
}

// Normalize trims the text fields of d.
func (d Draft) Normalize() Draft {
	d.Date = strings.TrimSpace(d.Date)
	d.Desc = strings.TrimSpace(d.Desc)
	d.Category = strings.TrimSpace(d.Category)
	return d
}

// Validate checks every required field. A nil or empty category set
// accepts any non-empty category.
func (d Draft) Validate(categories Categories) error {
	if strings.TrimSpace(d.Date) == "" {
		return invalid("date", ErrEmptyDate)
	}
	if strings.TrimSpace(d.Desc) == "" {
		return invalid("desc", ErrEmptyDescription)
	}
	if utf8.RuneCountInString(d.Desc) > maxDescriptionLen {
		return invalid("desc", ErrDescriptionTooLong)
	}
	if err := d.Amount.Validate(); err != nil {
		return invalid("amount", err)
	}
	if strings.TrimSpace(d.Category) == "" {
		return invalid("category", ErrEmptyCategory)
	}
	if len(categories) > 0 && !categories.Contains(d.Category) {
		return invalid("category", ErrUnknownCategory)
	}
	return nil
}

// ParseCategories reads a comma separated category list, dropping blanks
// and duplicates while preserving order. Income is always present.
func ParseCategories(s string) Categories {
	if strings.TrimSpace(s) == "" {
		return append(Categories(nil), DefaultCategories...)
	}
	seen := map[string]struct{}{}
	out := make(Categories, 0)
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if _, ok := seen[IncomeCategory]; !ok {
		out = append(Categories{IncomeCategory}, out...)
	}
	return out
}

func (c Categories) Contains(name string) bool {
	for _, v := range c {
		if v == name {
			return true
		}
	}
	return false
}

// ParseTheme accepts "dark" or "light" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", invalid("theme", ErrInvalidTheme)
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
