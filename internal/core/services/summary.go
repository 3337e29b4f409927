package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/promethean-light/mydata/internal/core/ports/driven"
	"github.com/promethean-light/mydata/internal/core/ports/driving"
)

// Ensure SummaryService implements the interface.
var _ driving.SummaryService = (*SummaryService)(nil)

// SummaryService serves precomputed summaries verbatim. It never embeds
// and never aggregates live: the whole point of the summary path is a
// zero-cost read for frequently needed views.
type SummaryService struct {
	store driven.SummaryStore
}

// NewSummaryService creates a summary service.
func NewSummaryService(store driven.SummaryStore) *SummaryService {
	return &SummaryService{store: store}
}

// Get returns the cached payload for a recognised summary name.
func (s *SummaryService) Get(ctx context.Context, name string) (json.RawMessage, error) {
	payload, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("summary %q: %w", name, err)
	}
	return payload, nil
}

// Names lists the recognised summary names.
func (s *SummaryService) Names(ctx context.Context) ([]string, error) {
	names, err := s.store.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing summaries: %w", err)
	}
	return names, nil
}
