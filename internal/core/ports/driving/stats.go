package driving

import (
	"context"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// StatsService serves aggregate counts and tag listings.
type StatsService interface {
	// Stats returns document, source-type, vector and tag counts.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Tags returns all distinct tags with counts.
	Tags(ctx context.Context) ([]domain.TagCount, error)
}
