package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
)

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore is an in-memory implementation of driven.SummaryStore.
type SummaryStore struct {
	mu        sync.RWMutex
	summaries map[string]json.RawMessage
}

// NewSummaryStore creates an in-memory summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{
		summaries: make(map[string]json.RawMessage),
	}
}

// Put registers a summary payload under a name.
func (s *SummaryStore) Put(name string, payload json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[name] = payload
}

// Get returns the payload for a recognised summary name.
func (s *SummaryStore) Get(_ context.Context, name string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.summaries[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return payload, nil
}

// Names returns the recognised summary names, sorted.
func (s *SummaryStore) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.summaries))
	for name := range s.summaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
