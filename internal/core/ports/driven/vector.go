package driven

import (
	"context"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// VectorIndex provides semantic similarity storage and search.
// Backed by Qdrant; cosine distance over normalised embeddings.
type VectorIndex interface {
	// Upsert inserts or replaces the vector record for a document.
	Upsert(ctx context.Context, rec domain.VectorRecord) error

	// Get retrieves a vector record by document ID, or domain.ErrNotFound.
	Get(ctx context.Context, docID string) (*domain.VectorRecord, error)

	// Delete removes a document's vector record.
	Delete(ctx context.Context, docID string) error

	// Search finds the k nearest records to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// ListIDs returns the document IDs of all records, for reconciliation.
	ListIDs(ctx context.Context) ([]string, error)

	// Count returns the number of records in the index.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result, carrying the record's
// denormalised payload so results can be served without a metadata join.
type VectorHit struct {
	// DocumentID is the matched document.
	DocumentID string

	// Score is the cosine similarity (0-1 for normalised vectors).
	Score float64

	// Source is the payload copy of the document's source.
	Source string

	// Text is the payload copy of the embedded text.
	Text string
}
