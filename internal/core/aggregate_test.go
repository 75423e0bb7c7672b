package core

import "testing"

func sample() []Transaction {
	return []Transaction{
		{ID: 1, Date: "2024-01-01", Desc: "salary", Amount: Money{Cents: 100000}, Category: IncomeCategory},
		{ID: 2, Date: "2024-01-02", Desc: "groceries", Amount: Money{Cents: 20000}, Category: "Food"},
		{ID: 3, Date: "2024-01-03", Desc: "coffee", Amount: Money{Cents: 5000}, Category: "Food"},
		{ID: 4, Date: "2024-01-04", Desc: "bus", Amount: Money{Cents: 10000}, Category: "Transport"},
	}
}

func TestComputeAggregatesAll(t *testing.T) {
	s := ComputeAggregates(sample(), FilterAll, Money{Cents: 50000})
	if s.Income.Cents != 100000 || s.Expense.Cents != 35000 || s.Net.Cents != 115000 {
		t.Fatalf("unexpected totals: income=%d expense=%d net=%d", s.Income.Cents, s.Expense.Cents, s.Net.Cents)
	}
	if s.Scope != FilterAll || len(s.Transactions) != 4 {
		t.Fatalf("unexpected scope/list: %q %d", s.Scope, len(s.Transactions))
	}

	// Empty filter behaves like All.
	if e := ComputeAggregates(sample(), "", Money{Cents: 50000}); e.Net != s.Net || len(e.Transactions) != 4 {
		t.Fatalf("empty filter differs from All: %+v", e)
	}
}

func TestComputeAggregatesFiltered(t *testing.T) {
	s := ComputeAggregates(sample(), "Food", Money{Cents: 50000})
	if s.Scope != "Food" || len(s.Transactions) != 2 {
		t.Fatalf("unexpected view: %+v", s)
	}
	if s.Transactions[0].ID != 2 || s.Transactions[1].ID != 3 {
		t.Fatalf("order not preserved: %+v", s.Transactions)
	}
	if s.Income.Cents != 0 || s.Expense.Cents != 25000 || s.Net.Cents != 25000 {
		t.Fatalf("unexpected totals: %+v", s)
	}

	s = ComputeAggregates(sample(), "Nothing", Money{Cents: 100})
	if len(s.Transactions) != 0 || s.Transactions == nil || s.Net.Cents != 100 {
		t.Fatalf("expected empty non-nil view, got %+v", s)
	}
}

func TestComputeCategoryBreakdown(t *testing.T) {
	txs := append(sample(), Transaction{ID: 5, Desc: "snack", Amount: Money{Cents: 100}, Category: "Food"})
	got := ComputeCategoryBreakdown(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %+v", got)
	}
	if got[0].Name != "Food" || got[0].Amount.Cents != 25100 {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].Name != "Transport" || got[1].Amount.Cents != 10000 {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
	for _, c := range got {
		if c.Name == IncomeCategory {
			t.Fatalf("income must be excluded")
		}
	}

	if b := ComputeCategoryBreakdown(sample()[:1]); len(b) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", b)
	}
}
