// Package memory provides the in-memory audit store for tests and dev mode.
package memory

import (
	"context"
	"sync"

	"moniker/internal/audit"
	"moniker/pkg/domain"
)

// Store is a thread-safe append-only in-memory audit store.
type Store struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Append records one entry.
func (s *Store) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// ListByTarget returns up to limit entries for target, most recent first.
func (s *Store) ListByTarget(_ context.Context, target domain.IdentityID, limit int) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Entry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if s.entries[i].TargetID == target {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

// ListRecent returns up to limit entries across all targets, most recent
// first.
func (s *Store) ListRecent(_ context.Context, limit int) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Entry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// All returns every entry in insertion order. Test helper.
func (s *Store) All() []audit.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Entry{}, s.entries...)
}
