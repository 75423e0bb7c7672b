package memory

import (
	"context"
	"sync"

	"fintrack/internal/kv"
)

var _ kv.Store = (*Store)(nil)

// Store keeps every key in process memory. Contents are lost on exit.
type Store struct {
	mu    sync.Mutex
	items map[string]string
}

// New returns a store pre-populated with seed (which may be nil).
func New(seed map[string]string) *Store {
	items := make(map[string]string, len(seed))
	for k, v := range seed {
		items[k] = v
	}
	return &Store{items: items}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}
