package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory brute-force cosine similarity index. Exact
// rather than approximate; fine for tests and small corpora.
type VectorIndex struct {
	mu      sync.RWMutex
	records map[string]domain.VectorRecord
}

// NewVectorIndex creates a new in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		records: make(map[string]domain.VectorRecord),
	}
}

// Upsert inserts or replaces the vector record for a document.
func (v *VectorIndex) Upsert(_ context.Context, rec domain.VectorRecord) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	rec.Embedding = append([]float32(nil), rec.Embedding...)
	v.records[rec.DocumentID] = rec
	return nil
}

// Get retrieves a vector record by document ID.
func (v *VectorIndex) Get(_ context.Context, docID string) (*domain.VectorRecord, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	rec, ok := v.records[docID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Delete removes a document's vector record.
func (v *VectorIndex) Delete(_ context.Context, docID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.records, docID)
	return nil
}

// Search finds the k nearest records to the query vector by cosine
// similarity.
func (v *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	v.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(v.records))
	for _, rec := range v.records {
		hits = append(hits, driven.VectorHit{
			DocumentID: rec.DocumentID,
			Score:      cosine(query, rec.Embedding),
			Source:     rec.Source,
			Text:       rec.Text,
		})
	}
	v.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// ListIDs returns the document IDs of all records.
func (v *VectorIndex) ListIDs(_ context.Context) ([]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.records))
	for id := range v.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// Count returns the number of records in the index.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records), nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// cosine computes cosine similarity between two vectors. Mismatched or
// zero-length vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
