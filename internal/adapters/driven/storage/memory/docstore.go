// Package memory provides in-memory implementations of the driven storage
// ports, used by service tests and as a fallback when no database is
// configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *doc
	stored.Tags = append([]string(nil), doc.Tags...)
	s.documents[doc.ID] = stored
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// DeleteDocument removes a document.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

// ListIDs returns the IDs of all documents.
func (s *DocumentStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.documents))
	for id := range s.documents {
		ids = append(ids, id)
	}
	return ids, nil
}

// FindByContentHash returns the document with the given content hash.
func (s *DocumentStore) FindByContentHash(_ context.Context, hash string) (*domain.Document, error) {
	if hash == "" {
		return nil, domain.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.ContentHash == hash {
			d := doc
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

// KeywordSearch filters documents by substring match over raw text, title
// and source, newest first.
func (s *DocumentStore) KeywordSearch(_ context.Context, q domain.KeywordQuery) ([]domain.Document, error) {
	q = q.Clamp()
	needle := strings.ToLower(q.Contains)

	s.mu.RLock()
	var matched []domain.Document
	for _, doc := range s.documents {
		if q.SourceType != "" && doc.SourceType != q.SourceType {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(doc.RawText), needle) &&
			!strings.Contains(strings.ToLower(doc.Title), needle) &&
			!strings.Contains(strings.ToLower(doc.Source), needle) {
			continue
		}
		matched = append(matched, doc)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// AddTags attaches tags to a document, ignoring duplicates.
func (s *DocumentStore) AddTags(_ context.Context, docID string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return domain.ErrNotFound
	}
	existing := make(map[string]bool, len(doc.Tags))
	for _, t := range doc.Tags {
		existing[t] = true
	}
	for _, t := range tags {
		if t == "" || existing[t] {
			continue
		}
		doc.Tags = append(doc.Tags, t)
		existing[t] = true
	}
	s.documents[docID] = doc
	return nil
}

// ListTags returns all distinct tags with counts, most frequent first.
func (s *DocumentStore) ListTags(_ context.Context) ([]domain.TagCount, error) {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, doc := range s.documents {
		for _, t := range doc.Tags {
			counts[t]++
		}
	}
	s.mu.RUnlock()

	tags := make([]domain.TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, domain.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return tags, nil
}

// CountDocuments returns the total document count.
func (s *DocumentStore) CountDocuments(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// CountBySourceType returns document counts keyed by source type.
func (s *DocumentStore) CountBySourceType(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, doc := range s.documents {
		counts[doc.SourceType]++
	}
	return counts, nil
}
