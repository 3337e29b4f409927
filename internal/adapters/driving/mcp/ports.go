package mcp

import (
	"github.com/promethean-light/mydata/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search answers semantic and keyword queries.
	Search driving.SearchService

	// Ingest adds notes to the store.
	Ingest driving.IngestService

	// Stats serves aggregate counts and tags.
	Stats driving.StatsService

	// Summary serves precomputed summaries. Optional.
	Summary driving.SummaryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	// Stats and Summary are optional
	return nil
}
