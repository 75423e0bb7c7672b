package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// Mirror receives the full ledger whenever it changes. Implementations
	// overwrite what they held before, so repeated calls are idempotent.
	Mirror interface {
		ReplaceTransactions(ctx context.Context, snap Snapshot) error
	}
)

// Snapshot is the ledger state pushed to a mirror.
type Snapshot struct {
	Transactions []core.Transaction
	Summary      core.Summary
	Breakdown    []core.CategoryAmount
	Version      int64
}
