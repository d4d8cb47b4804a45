package audit

import (
	"context"
	"sync"

	id "caseflow/pkg/domain"
)

// InMemoryStore keeps audit streams per case. Events are stored in append
// order, which is chronological because each case's mutations are serialized.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.CaseID][]Event
}

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.CaseID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.CaseID] = append(s.events[event.CaseID], event)
	return nil
}

func (s *InMemoryStore) ListByCase(_ context.Context, caseID id.CaseID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[caseID]...), nil
}
