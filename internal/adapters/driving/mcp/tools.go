package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title,omitempty"`
	Score      float64 `json:"score"`
	Content    string  `json:"content,omitempty"`
	Source     string  `json:"source,omitempty"`
}

// AddNoteInput is the input schema for the add_note tool.
type AddNoteInput struct {
	Text   string   `json:"text" jsonschema:"the note text to store"`
	Source string   `json:"source,omitempty" jsonschema:"provenance label (defaults to claude)"`
	Tags   []string `json:"tags,omitempty" jsonschema:"labels to attach to the note"`
}

// AddNoteOutput is the output schema for the add_note tool.
type AddNoteOutput struct {
	DocumentID string `json:"document_id"`
	Duplicate  bool   `json:"duplicate,omitempty"`
}

// GrepInput is the input schema for the grep tool.
type GrepInput struct {
	Contains   string `json:"contains" jsonschema:"substring to match against document text"`
	SourceType string `json:"source_type,omitempty" jsonschema:"restrict to one source type: email, file or note"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 10)"`
}

// GrepOutput is the output schema for the grep tool.
type GrepOutput struct {
	Results []GrepResultOutput `json:"results"`
	Count   int                `json:"count"`
}

// GrepResultOutput is one keyword match.
type GrepResultOutput struct {
	DocumentID string    `json:"document_id"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	SourceType string    `json:"source_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	TotalDocuments int            `json:"total_documents"`
	BySourceType   map[string]int `json:"by_source_type"`
	VectorCount    int            `json:"vector_count"`
	TotalTags      int            `json:"total_tags"`
	InSync         bool           `json:"in_sync"`
}

// TagsOutput is the output schema for the tags tool.
type TagsOutput struct {
	Tags []domain.TagCount `json:"tags"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search across all stored documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_note",
		Description: "Store a note in the personal document store",
	}, s.handleAddNote)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "grep",
		Description: "Keyword search by exact substring, useful for names and phrases",
	}, s.handleGrep)

	if s.ports.Stats != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats",
			Description: "Document, vector and tag counts for the store",
		}, s.handleStats)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "tags",
			Description: "All tags in the store with usage counts",
		}, s.handleTags)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: input.Limit}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].ID,
			Title:      results[i].Title,
			Score:      results[i].Score,
			Content:    results[i].Content,
			Source:     results[i].Source,
		}
	}

	return nil, output, nil
}

// handleAddNote handles the add_note tool invocation.
func (s *Server) handleAddNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddNoteInput,
) (*mcp.CallToolResult, AddNoteOutput, error) {
	source := input.Source
	if source == "" {
		source = "claude"
	}

	result, err := s.ports.Ingest.AddText(ctx, input.Text, source)
	if err != nil {
		return nil, AddNoteOutput{}, err
	}

	if len(input.Tags) > 0 && !result.Duplicate {
		if err := s.ports.Ingest.Tag(ctx, result.ID, input.Tags); err != nil {
			return nil, AddNoteOutput{}, err
		}
	}

	return nil, AddNoteOutput{
		DocumentID: result.ID,
		Duplicate:  result.Duplicate,
	}, nil
}

// handleGrep handles the grep tool invocation.
func (s *Server) handleGrep(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GrepInput,
) (*mcp.CallToolResult, GrepOutput, error) {
	docs, err := s.ports.Search.Keyword(ctx, domain.KeywordQuery{
		Contains:   input.Contains,
		SourceType: input.SourceType,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, GrepOutput{}, err
	}

	output := GrepOutput{
		Results: make([]GrepResultOutput, len(docs)),
		Count:   len(docs),
	}
	for i := range docs {
		output.Results[i] = GrepResultOutput{
			DocumentID: docs[i].ID,
			Title:      docs[i].Title,
			Source:     docs[i].Source,
			SourceType: docs[i].SourceType,
			CreatedAt:  docs[i].CreatedAt,
		}
	}

	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Stats.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		TotalDocuments: stats.TotalDocuments,
		BySourceType:   stats.BySourceType,
		VectorCount:    stats.VectorCount,
		TotalTags:      stats.TotalTags,
		InSync:         stats.InSync(),
	}, nil
}

// handleTags handles the tags tool invocation.
func (s *Server) handleTags(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, TagsOutput, error) {
	tags, err := s.ports.Stats.Tags(ctx)
	if err != nil {
		return nil, TagsOutput{}, err
	}
	return nil, TagsOutput{Tags: tags}, nil
}
