package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/kv"
	"fintrack/internal/ledger"
	"fintrack/internal/sheets"
)

// SyncWorker mirrors the ledger held in a shared store to a sheets.Mirror.
// Every sync pushes the whole snapshot, so lost or reordered change
// messages are repaired by the next one or by the periodic resync.
type SyncWorker struct {
	store  kv.Store
	mirror sheets.Mirror

	mu       sync.Mutex
	lastHash uint64
	synced   bool
	syncs    int
}

// NewSyncWorker creates a worker. A nil mirror makes it log changes only.
func NewSyncWorker(store kv.Store, mirror sheets.Mirror) *SyncWorker {
	return &SyncWorker{store: store, mirror: mirror}
}

// HandleChange processes one change notification from AMQP.
func (w *SyncWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"op", msg.Op,
		"id", msg.ID,
		"version", msg.Version,
		"published_at", msg.Timestamp)

	if w.mirror == nil {
		return nil
	}
	if _, err := w.Sync(ctx); err != nil {
		return fmt.Errorf("sync after %s: %w", msg.Op, err)
	}
	return nil
}

// Sync pushes the current snapshot unless it matches the last one pushed.
// It reports whether the mirror was written.
func (w *SyncWorker) Sync(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.mirror == nil {
		return false, nil
	}

	hash, err := w.stateHash(ctx)
	if err != nil {
		return false, err
	}
	if w.synced && hash == w.lastHash {
		slog.DebugContext(ctx, "Ledger unchanged since last sync, skipping")
		return false, nil
	}

	snap, err := w.snapshot(ctx)
	if err != nil {
		return false, err
	}
	if err := w.mirror.ReplaceTransactions(ctx, snap); err != nil {
		return false, fmt.Errorf("replace mirrored transactions: %w", err)
	}

	w.lastHash, w.synced = hash, true
	w.syncs++
	slog.InfoContext(ctx, "Ledger mirrored", "transactions", len(snap.Transactions))
	return true, nil
}

// Syncs returns how many snapshots have been written.
func (w *SyncWorker) Syncs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.syncs
}

// RunPeriodic resyncs every interval until ctx is done.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Sync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

// stateHash fingerprints the persisted keys the snapshot is built from.
// Stores that count writes are fingerprinted by those counters so the
// transaction blob is only read when something changed.
func (w *SyncWorker) stateHash(ctx context.Context) (uint64, error) {
	d := xxhash.New()
	versioner, counted := w.store.(kv.Versioner)
	for _, key := range []string{kv.KeyTransactions, kv.KeyBankAmount} {
		var v string
		if counted {
			n, err := versioner.Version(ctx, key)
			if err != nil {
				return 0, fmt.Errorf("version of %s: %w", key, err)
			}
			v = "#" + strconv.FormatInt(n, 10)
		} else {
			raw, _, err := w.store.Get(ctx, key)
			if err != nil {
				return 0, fmt.Errorf("read %s: %w", key, err)
			}
			v = raw
		}
		_, _ = d.WriteString(key)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(v)
		_, _ = d.WriteString("\x00")
	}
	return d.Sum64(), nil
}

func (w *SyncWorker) snapshot(ctx context.Context) (sheets.Snapshot, error) {
	// nil categories: the mirror reflects whatever the server stored
	l, err := ledger.Load(ctx, w.store, nil)
	if err != nil {
		return sheets.Snapshot{}, fmt.Errorf("load ledger: %w", err)
	}
	return sheets.Snapshot{
		Transactions: l.All(),
		Summary:      l.Aggregates(core.FilterAll),
		Breakdown:    l.CategoryBreakdown(),
		Version:      l.Version(),
	}, nil
}
