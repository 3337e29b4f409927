package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
	"github.com/promethean-light/mydata/internal/core/ports/driving"
	"github.com/promethean-light/mydata/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers semantic queries against the vector index and
// keyword queries against the metadata index. The two paths are
// deliberately independent: keyword search must keep working when the
// embedder or vector index is down.
type SearchService struct {
	docStore     driven.DocumentStore
	vectorIndex  driven.VectorIndex
	embedder     driven.EmbeddingService
	cache        *Cache
	embedTimeout time.Duration
}

// NewSearchService creates a search service. The cache is optional.
func NewSearchService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	cache *Cache,
) *SearchService {
	return &SearchService{
		docStore:     docStore,
		vectorIndex:  vectorIndex,
		embedder:     embedder,
		cache:        cache,
		embedTimeout: DefaultEmbedTimeout,
	}
}

// SetEmbedTimeout overrides the bound on query embedding calls.
func (s *SearchService) SetEmbedTimeout(d time.Duration) {
	if d > 0 {
		s.embedTimeout = d
	}
}

// Search embeds the query with the same embedder used at ingestion and
// returns the nearest documents, ranked by descending similarity with ties
// broken by more recent created_at.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty: %w", domain.ErrInvalidInput)
	}
	opts = opts.Clamp()

	cacheKey := fmt.Sprintf("search:%s:%d:%g", query, opts.Limit, opts.MinScore)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if results, ok := cached.([]domain.SearchResult); ok {
			logger.Debug("Search cache hit for %q", query)
			return results, nil
		}
	}

	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	embedding, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := s.vectorIndex.Search(ctx, embedding, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Search %q: %d candidates", query, len(hits))

	results := s.hydrate(ctx, hits, opts.MinScore)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	s.cache.Set(cacheKey, results)
	return results, nil
}

// Keyword filters the metadata index directly, without embedding.
func (s *SearchService) Keyword(ctx context.Context, q domain.KeywordQuery) ([]domain.Document, error) {
	q.Contains = strings.TrimSpace(q.Contains)
	if q.Contains == "" {
		return nil, fmt.Errorf("keyword filter must not be empty: %w", domain.ErrInvalidInput)
	}
	q = q.Clamp()

	docs, err := s.docStore.KeywordSearch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return docs, nil
}

// Document returns a single document by ID.
func (s *SearchService) Document(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}
	return doc, nil
}

// embedQuery runs the embedder under the configured timeout.
func (s *SearchService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("embedding query: %w", domain.ErrTimeout)
		}
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return embedding, nil
}

// hydrate resolves vector hits against the metadata index. A missing
// metadata row does not drop the hit: the record's denormalised payload
// serves a degraded result, and the divergence is left to reconciliation.
func (s *SearchService) hydrate(ctx context.Context, hits []driven.VectorHit, minScore float64) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(hits))

	for _, hit := range hits {
		if minScore > 0 && hit.Score < minScore {
			continue
		}

		doc, err := s.docStore.GetDocument(ctx, hit.DocumentID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Hydrating result %s: %v", hit.DocumentID, err)
			} else {
				logger.Warn("Vector record %s has no metadata row, serving degraded result", hit.DocumentID)
			}
			results = append(results, domain.SearchResult{
				ID:       hit.DocumentID,
				Score:    hit.Score,
				Content:  domain.Excerpt(hit.Text, domain.ExcerptLen),
				Source:   hit.Source,
				Degraded: true,
			})
			continue
		}

		results = append(results, domain.SearchResult{
			ID:        doc.ID,
			Title:     doc.Title,
			Score:     hit.Score,
			Content:   domain.Excerpt(doc.Content, domain.ExcerptLen),
			Source:    doc.Source,
			CreatedAt: doc.CreatedAt,
		})
	}

	return results
}
