package driving

import (
	"context"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// SearchService answers semantic and keyword queries.
type SearchService interface {
	// Search embeds the query and returns the nearest documents ranked by
	// descending similarity, ties broken by more recent created_at. An
	// empty query fails with domain.ErrInvalidInput; an empty result set
	// is not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Keyword filters the metadata index directly, without embedding.
	Keyword(ctx context.Context, q domain.KeywordQuery) ([]domain.Document, error)

	// Document returns a single document by ID.
	Document(ctx context.Context, id string) (*domain.Document, error)
}
