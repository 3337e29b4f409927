package mcp

import (
	"context"
	"encoding/json"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	docs     []domain.Document
	document *domain.Document
	err      error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockSearchService) Keyword(_ context.Context, _ domain.KeywordQuery) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockSearchService) Document(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result     *domain.IngestResult
	lastText   string
	lastSource string
	lastTags   []string
	err        error
}

func (m *mockIngestService) AddText(_ context.Context, text, source string) (*domain.IngestResult, error) {
	m.lastText = text
	m.lastSource = source
	return m.result, m.err
}

func (m *mockIngestService) AddFile(_ context.Context, _ string) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestService) Tag(_ context.Context, _ string, tags []string) error {
	m.lastTags = tags
	return m.err
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats *domain.Stats
	tags  []domain.TagCount
	err   error
}

func (m *mockStatsService) Stats(_ context.Context) (*domain.Stats, error) {
	return m.stats, m.err
}

func (m *mockStatsService) Tags(_ context.Context) ([]domain.TagCount, error) {
	return m.tags, m.err
}

// mockSummaryService is a mock implementation of driving.SummaryService.
type mockSummaryService struct {
	payload json.RawMessage
	names   []string
	err     error
}

func (m *mockSummaryService) Get(_ context.Context, _ string) (json.RawMessage, error) {
	return m.payload, m.err
}

func (m *mockSummaryService) Names(_ context.Context) ([]string, error) {
	return m.names, m.err
}
