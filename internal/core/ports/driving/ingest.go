package driving

import (
	"context"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// IngestService adds documents to both indexes.
type IngestService interface {
	// AddText ingests raw text. Empty text fails with
	// domain.ErrInvalidInput; source defaults to "api" when empty.
	AddText(ctx context.Context, text, source string) (*domain.IngestResult, error)

	// AddFile ingests a text file from disk, deduplicating by content
	// hash.
	AddFile(ctx context.Context, path string) (*domain.IngestResult, error)

	// Tag attaches tags to an existing document.
	Tag(ctx context.Context, docID string, tags []string) error
}
