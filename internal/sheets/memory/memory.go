// Package memory is a Mirror that keeps the last snapshot in process.
package memory

import (
	"context"
	"slices"
	"sync"

	ports "fintrack/internal/sheets"
)

var _ ports.Mirror = (*Mirror)(nil)

type Mirror struct {
	mu     sync.Mutex
	last   ports.Snapshot
	writes int
	err    error
}

func New() *Mirror {
	return &Mirror{}
}

// FailWith makes subsequent writes return err (nil to clear).
func (m *Mirror) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ReplaceTransactions stores a copy of snap.
func (m *Mirror) ReplaceTransactions(_ context.Context, snap ports.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	snap.Transactions = slices.Clone(snap.Transactions)
	snap.Breakdown = slices.Clone(snap.Breakdown)
	m.last = snap
	m.writes++
	return nil
}

// Last returns the most recent snapshot and how many writes succeeded.
func (m *Mirror) Last() (ports.Snapshot, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.writes
}
