// Package kv defines the string-keyed store the ledger is persisted to.
package kv

import "context"

// Keys written by the ledger.
const (
	KeyTransactions = "transactions"
	KeyBankAmount   = "bankAmount"
	KeyTheme        = "theme"
)

type (
	// Store is an opaque get/set string store.
	Store interface {
		// Get returns the value for key and whether it was present.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
		Set(ctx context.Context, key, value string) error
	}

	// Pinger is implemented by stores backed by a remote service.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Versioner is implemented by stores that count writes per key. The
	// count is 0 for a key never written.
	Versioner interface {
		Version(ctx context.Context, key string) (int64, error)
	}
)
