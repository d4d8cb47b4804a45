package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"caseflow/internal/casefile/models"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
)

// caseEntry pairs a canonical case record with its own lock. Holding the
// entry lock serializes every mutation of that case without blocking other
// cases.
type caseEntry struct {
	mu sync.Mutex
	c  *models.Case
}

// InMemory is the canonical in-memory case store.
type InMemory struct {
	mu    sync.RWMutex
	cases map[id.CaseID]*caseEntry
	seq   uint64
}

var _ Store = (*InMemory)(nil)

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{cases: make(map[id.CaseID]*caseEntry)}
}

func (s *InMemory) Create(_ context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cases[c.ID]; exists {
		return fmt.Errorf("case %s: %w", c.ID, sentinel.ErrConflict)
	}
	s.cases[c.ID] = &caseEntry{c: c.Clone()}
	return nil
}

func (s *InMemory) Get(_ context.Context, caseID id.CaseID) (*models.Case, error) {
	s.mu.RLock()
	entry, ok := s.cases[caseID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.c.Clone(), nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Case, error) {
	s.mu.RLock()
	entries := make([]*caseEntry, 0, len(s.cases))
	for _, entry := range s.cases {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	out := make([]*models.Case, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		out = append(out, entry.c.Clone())
		entry.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Number < out[j].Number
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, caseID id.CaseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[caseID]; !ok {
		return fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	delete(s.cases, caseID)
	return nil
}

// Execute runs fn under the case lock. fn works on a clone; the clone becomes
// the canonical record only when fn returns nil, so a failed operation leaves
// no partial effects.
func (s *InMemory) Execute(ctx context.Context, caseID id.CaseID, fn func(c *models.Case) error) (*models.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entry, ok := s.cases[caseID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.c.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	entry.c = working
	return working.Clone(), nil
}

func (s *InMemory) NextCaseNumber(_ context.Context, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("WC-%d-%04d", now.Year(), s.seq), nil
}
