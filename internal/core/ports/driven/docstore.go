package driven

import (
	"context"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// DocumentStore persists documents and tags. Backed by SQLite; its
// documents table is the durable external contract that other tooling may
// read directly.
type DocumentStore interface {
	// SaveDocument stores or updates a document and its tags.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document and its tags.
	DeleteDocument(ctx context.Context, id string) error

	// ListIDs returns the IDs of all documents, for reconciliation.
	ListIDs(ctx context.Context) ([]string, error)

	// FindByContentHash returns the document with the given content hash,
	// or domain.ErrNotFound.
	FindByContentHash(ctx context.Context, hash string) (*domain.Document, error)

	// KeywordSearch filters documents by substring match over raw_text,
	// title and source, ordered by created_at descending. The filter is
	// always parameterised, never interpolated.
	KeywordSearch(ctx context.Context, q domain.KeywordQuery) ([]domain.Document, error)

	// AddTags attaches tags to a document, ignoring duplicates.
	AddTags(ctx context.Context, docID string, tags []string) error

	// ListTags returns all distinct tags with their attachment counts,
	// most frequent first.
	ListTags(ctx context.Context) ([]domain.TagCount, error)

	// CountDocuments returns the total document count.
	CountDocuments(ctx context.Context) (int, error)

	// CountBySourceType returns document counts keyed by source type.
	CountBySourceType(ctx context.Context) (map[string]int, error)
}
