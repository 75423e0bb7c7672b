package core

import "strings"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// Summary holds the derived view of the ledger for one filter.
//
// Income, Expense and Net are computed over Transactions only, so they
// describe Scope and not the whole ledger unless Scope is FilterAll.
type Summary struct {
	Scope        string        `json:"scope"`
	Transactions []Transaction `json:"transactions"`
	Income       Money         `json:"total_income"`
	Expense      Money         `json:"total_expense"`
	BankAmount   Money         `json:"bank_amount"`
	Net          Money         `json:"net_balance"`
}

// IsAllFilter reports whether filter selects every transaction.
func IsAllFilter(filter string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || filter == FilterAll
}

// ComputeAggregates filters txs by category (order preserved) and totals
// income and expense over the filtered subset.
func ComputeAggregates(txs []Transaction, filter string, bank Money) Summary {
	s := Summary{
		Scope:        FilterAll,
		Transactions: make([]Transaction, 0, len(txs)),
		BankAmount:   bank,
	}
	all := IsAllFilter(filter)
	if !all {
		s.Scope = strings.TrimSpace(filter)
	}
	for _, t := range txs {
		if !all && t.Category != s.Scope {
			continue
		}
		s.Transactions = append(s.Transactions, t)
		if t.IsIncome() {
			s.Income = s.Income.Add(t.Amount)
		} else {
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Net = bank.Add(s.Income).Sub(s.Expense)
	return s
}

// ComputeCategoryBreakdown sums expense amounts per category over the
// whole sequence, in first-seen category order. Income is excluded.
func ComputeCategoryBreakdown(txs []Transaction) []CategoryAmount {
	out := make([]CategoryAmount, 0)
	index := map[string]int{}
	for _, t := range txs {
		if t.IsIncome() {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryAmount{Name: t.Category})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}
