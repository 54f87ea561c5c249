// Package memory is an in-memory TimelineStore, used by tests and by dry
// runs that want export side effects without a database.
package memory

import (
	"context"
	"sync"

	"github.com/privrun/tsdump/internal/timestamp/store"
)

type Store struct {
	mu   sync.RWMutex
	recs []store.ScanRecord
}

func New() *Store {
	return &Store{}
}

func (s *Store) RecordEntry(_ context.Context, rec store.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs = append(s.recs, rec)
	return nil
}

// Records returns a copy of everything recorded so far, in insertion order.
func (s *Store) Records() []store.ScanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.ScanRecord, len(s.recs))
	copy(out, s.recs)
	return out
}
