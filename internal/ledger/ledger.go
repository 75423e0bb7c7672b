// Package ledger holds the ordered transaction sequence and mirrors it to
// a kv.Store after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrBankAmountSet = errors.New("bank amount already set")
)

// Ledger is the in-memory transaction sequence. All methods are safe for
// concurrent use; mutations are serialized and each one writes the whole
// sequence back to the store before it becomes visible.
type Ledger struct {
	mu         sync.RWMutex
	store      kv.Store
	categories core.Categories

	txs     []core.Transaction
	nextID  int64
	version int64

	bank    core.Money
	bankSet bool
}

// Load reads the ledger and bank amount from store. A missing key yields an
// empty ledger; an undecodable value is an error.
func Load(ctx context.Context, store kv.Store, categories core.Categories) (*Ledger, error) {
	if store == nil {
		return nil, errors.New("ledger store is nil")
	}
	l := &Ledger{store: store, categories: categories}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory state with what the store holds.
func (l *Ledger) Reload(ctx context.Context) error {
	txs, err := readTransactions(ctx, l.store)
	if err != nil {
		return err
	}
	bank, bankSet, err := readBankAmount(ctx, l.store)
	if err != nil {
		return err
	}

	var maxID int64
	for _, t := range txs {
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = txs
	l.nextID = maxID + 1
	l.bank, l.bankSet = bank, bankSet
	l.version++

	slog.DebugContext(ctx, "Ledger loaded", "transactions", len(txs), "bank_amount_set", bankSet)
	return nil
}

func readTransactions(ctx context.Context, store kv.Store) ([]core.Transaction, error) {
	raw, ok, err := store.Get(ctx, kv.KeyTransactions)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", kv.KeyTransactions, err)
	}
	txs := make([]core.Transaction, 0)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" || raw == "null" {
		return txs, nil
	}
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kv.KeyTransactions, err)
	}
	return txs, nil
}

func readBankAmount(ctx context.Context, store kv.Store) (core.Money, bool, error) {
	raw, ok, err := store.Get(ctx, kv.KeyBankAmount)
	if err != nil {
		return core.Money{}, false, fmt.Errorf("read %s: %w", kv.KeyBankAmount, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return core.Money{}, false, nil
	}
	m, err := core.ParseBalance(raw)
	if err != nil {
		return core.Money{}, false, fmt.Errorf("decode %s %q: %w", kv.KeyBankAmount, raw, err)
	}
	return m, true, nil
}

// persist writes txs as the whole sequence. Callers hold l.mu.
func (l *Ledger) persist(ctx context.Context, txs []core.Transaction) error {
	b, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kv.KeyTransactions, err)
	}
	if err := l.store.Set(ctx, kv.KeyTransactions, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", kv.KeyTransactions, err)
	}
	return nil
}

// commit makes txs the current sequence once it has been persisted.
func (l *Ledger) commit(ctx context.Context, txs []core.Transaction) error {
	if err := l.persist(ctx, txs); err != nil {
		return err
	}
	l.txs = txs
	l.version++
	return nil
}

func (l *Ledger) indexOf(id int64) int {
	return slices.IndexFunc(l.txs, func(t core.Transaction) bool { return t.ID == id })
}

// Add validates d, assigns a fresh id and appends the record.
func (l *Ledger) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	d = d.Normalize()
	if err := d.Validate(l.categories); err != nil {
		return core.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	t := core.Transaction{ID: l.nextID, Date: d.Date, Desc: d.Desc, Amount: d.Amount, Category: d.Category}
	next := append(slices.Clone(l.txs), t)
	if err := l.commit(ctx, next); err != nil {
		return core.Transaction{}, err
	}
	l.nextID++

	return t, nil
}

// Update replaces the record with the given id in place, keeping its id and
// position. It returns ErrNotFound when no such record exists.
func (l *Ledger) Update(ctx context.Context, id int64, d core.Draft) (core.Transaction, error) {
	d = d.Normalize()
	if err := d.Validate(l.categories); err != nil {
		return core.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	t := core.Transaction{ID: id, Date: d.Date, Desc: d.Desc, Amount: d.Amount, Category: d.Category}
	next := slices.Clone(l.txs)
	next[i] = t
	if err := l.commit(ctx, next); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// Delete removes the record with the given id. A missing id is a no-op and
// reports false without error.
func (l *Ledger) Delete(ctx context.Context, id int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(l.txs), i, i+1)
	if err := l.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the record with the given id.
func (l *Ledger) Get(id int64) (core.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(id); i >= 0 {
		return l.txs[i], true
	}
	return core.Transaction{}, false
}

// All returns a copy of the sequence in ledger order.
func (l *Ledger) All() []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.txs)
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

// Version increases on every successful mutation or reload.
func (l *Ledger) Version() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

func (l *Ledger) Categories() core.Categories {
	return slices.Clone(l.categories)
}

// Aggregates returns the filtered view and its totals. See core.Summary
// for the scope of the totals.
func (l *Ledger) Aggregates(filter string) core.Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return core.ComputeAggregates(l.txs, filter, l.bank)
}

// CategoryBreakdown sums expenses per category over the whole ledger.
func (l *Ledger) CategoryBreakdown() []core.CategoryAmount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return core.ComputeCategoryBreakdown(l.txs)
}
