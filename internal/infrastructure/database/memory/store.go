// Package memory keeps reaction records in process memory.  Records are
// lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

var ErrClosed = errors.New(errors.ErrCodeDatabaseError, "memory store is closed")

// Store is a mutex-guarded reaction.Repository.
type Store struct {
	mu      sync.RWMutex
	records []reaction.Record
	nextID  int64
	closed  bool
	now     func() time.Time
}

var _ reaction.Repository = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{nextID: 1, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Insert(_ context.Context, rec *reaction.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, *rec)
	return nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]*reaction.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	sorted := make([]reaction.Record, len(s.records))
	copy(sorted, s.records)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	limit = reaction.ClampLimit(limit)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]*reaction.Record, len(sorted))
	for i := range sorted {
		out[i] = &sorted[i]
	}
	return out, nil
}

func (s *Store) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return int64(len(s.records)), nil
}

func (s *Store) HealthCheck(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

//Personal.AI order the ending
