// Package memory provides an in-memory ledger store for tests and dry
// runs. It mirrors the sqlite backend's semantics without a backing file.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ledger"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

// Store is an in-memory ledger.Store. Safe for concurrent readers; the
// pipeline writes from a single goroutine as the ledger contract requires.
type Store struct {
	mu      sync.RWMutex
	records map[int64]*ticket.Record
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[int64]*ticket.Record)}
}

// Init is a no-op for the in-memory backend.
func (s *Store) Init(ctx context.Context) error { return nil }

func (s *Store) Get(ctx context.Context, id int64) (*ticket.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) Put(ctx context.Context, rec *ticket.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *Store) List(ctx context.Context, filter ledger.Filter) ([]*ticket.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ticket.Record
	for _, rec := range s.records {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.NeedsRetriage != nil && rec.NeedsRetriage != *filter.NeedsRetriage {
			continue
		}
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetStatus(ctx context.Context, id int64, to ticket.Status, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return ledger.ErrNotFound
	}
	if err := ticket.CheckTransition(rec.Status, to, force); err != nil {
		return err
	}
	rec.Status = to
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error { return nil }
