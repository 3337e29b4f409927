package services

import (
	"context"
	"fmt"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
	"github.com/promethean-light/mydata/internal/core/ports/driving"
	"github.com/promethean-light/mydata/internal/logger"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService serves aggregate counts over both indexes. Comparing
// TotalDocuments against VectorCount is how operators detect ingestion
// inconsistency.
type StatsService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	cache       *Cache
}

// NewStatsService creates a stats service. The vector index and cache are
// optional (can be nil).
func NewStatsService(docStore driven.DocumentStore, vectorIndex driven.VectorIndex, cache *Cache) *StatsService {
	return &StatsService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
		cache:       cache,
	}
}

// Stats returns document, source-type, vector and tag counts.
func (s *StatsService) Stats(ctx context.Context) (*domain.Stats, error) {
	if cached, ok := s.cache.Get("stats"); ok {
		if stats, ok := cached.(*domain.Stats); ok {
			return stats, nil
		}
	}

	total, err := s.docStore.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	byType, err := s.docStore.CountBySourceType(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting by source type: %w", err)
	}

	tags, err := s.docStore.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	totalTags := 0
	for _, t := range tags {
		totalTags += t.Count
	}

	vectorCount := 0
	if s.vectorIndex != nil {
		vectorCount, err = s.vectorIndex.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting vectors: %w", err)
		}
	}

	stats := &domain.Stats{
		TotalDocuments: total,
		BySourceType:   byType,
		VectorCount:    vectorCount,
		TotalTags:      totalTags,
	}

	if !stats.InSync() {
		logger.Warn("Index divergence: %d documents vs %d vectors", total, vectorCount)
	}

	s.cache.Set("stats", stats)
	return stats, nil
}

// Tags returns all distinct tags with counts, most frequent first.
func (s *StatsService) Tags(ctx context.Context) ([]domain.TagCount, error) {
	tags, err := s.docStore.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}
