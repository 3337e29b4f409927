package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
	"github.com/promethean-light/mydata/internal/core/ports/driving"
	"github.com/promethean-light/mydata/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultSource is assigned when a caller supplies no source tag.
const DefaultSource = "api"

// DuplicateThreshold is the cosine similarity above which new text is
// treated as a near-duplicate of an existing document and skipped.
const DuplicateThreshold = 0.95

// DefaultEmbedTimeout bounds a single embedder call so ingestion can never
// hang a caller.
const DefaultEmbedTimeout = 30 * time.Second

// IngestService writes documents to the metadata index and mirrors them
// into the vector index. The metadata write always commits first; a failed
// vector write leaves the document queued for reconciliation rather than
// lost.
type IngestService struct {
	docStore     driven.DocumentStore
	vectorIndex  driven.VectorIndex
	embedder     driven.EmbeddingService
	reconciler   *Reconciler
	cache        *Cache
	embedTimeout time.Duration
}

// NewIngestService creates an ingestion service. The reconciler and cache
// are optional (can be nil).
func NewIngestService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	reconciler *Reconciler,
	cache *Cache,
) *IngestService {
	return &IngestService{
		docStore:     docStore,
		vectorIndex:  vectorIndex,
		embedder:     embedder,
		reconciler:   reconciler,
		cache:        cache,
		embedTimeout: DefaultEmbedTimeout,
	}
}

// SetEmbedTimeout overrides the bound on embedder calls.
func (s *IngestService) SetEmbedTimeout(d time.Duration) {
	if d > 0 {
		s.embedTimeout = d
	}
}

// AddText ingests raw text supplied by a caller (CLI paste, API note,
// email body).
func (s *IngestService) AddText(ctx context.Context, text, source string) (*domain.IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text must not be empty: %w", domain.ErrInvalidInput)
	}
	if source == "" {
		source = DefaultSource
	}

	// Embed up front: the same vector serves the duplicate check and the
	// index write, so the embedder is paid at most once per call.
	embedding, embedErr := s.embed(ctx, text)

	if embedErr == nil {
		if existing := s.findDuplicate(ctx, embedding); existing != "" {
			logger.Debug("Duplicate text for source %q matches document %s, skipping", source, existing)
			return &domain.IngestResult{ID: existing, Duplicate: true}, nil
		}
	}

	doc := &domain.Document{
		ID:         uuid.NewString(),
		Title:      domain.DeriveTitle(text),
		Content:    text,
		RawText:    text,
		Source:     source,
		SourceType: domain.ClassifySource(source),
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	return s.commit(ctx, doc, embedding, embedErr)
}

// AddFile ingests a text file from disk, deduplicating by content hash so
// repeated drops of the same file resolve to the same document.
func (s *IngestService) AddFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("file %s is empty: %w", path, domain.ErrInvalidInput)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.docStore.FindByContentHash(ctx, hash)
	if err == nil {
		logger.Debug("File %s already indexed as document %s", path, existing.ID)
		return &domain.IngestResult{ID: existing.ID, Duplicate: true}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking content hash: %w", err)
	}

	embedding, embedErr := s.embed(ctx, text)

	doc := &domain.Document{
		ID:          uuid.NewString(),
		Title:       domain.DeriveTitle(text),
		Content:     text,
		RawText:     text,
		Source:      "file://" + path,
		SourceType:  domain.SourceTypeFile,
		ContentHash: hash,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	return s.commit(ctx, doc, embedding, embedErr)
}

// Tag attaches tags to an existing document.
func (s *IngestService) Tag(ctx context.Context, docID string, tags []string) error {
	if docID == "" || len(tags) == 0 {
		return fmt.Errorf("document id and tags are required: %w", domain.ErrInvalidInput)
	}
	if _, err := s.docStore.GetDocument(ctx, docID); err != nil {
		return fmt.Errorf("getting document %s: %w", docID, err)
	}
	if err := s.docStore.AddTags(ctx, docID, tags); err != nil {
		return fmt.Errorf("adding tags: %w", err)
	}
	s.cache.Purge()
	return nil
}

// commit persists the document row and then the vector record. The row
// write is the durability point: vectorisation failures afterwards are
// logged, queued for reconciliation and reported as pending, never as a
// failure of the add itself.
func (s *IngestService) commit(
	ctx context.Context, doc *domain.Document, embedding []float32, embedErr error,
) (*domain.IngestResult, error) {
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	s.cache.Purge()

	result := &domain.IngestResult{ID: doc.ID}

	if embedErr != nil {
		logger.Warn("Document %s stored without vector (embed failed: %v); queued for reconciliation", doc.ID, embedErr)
		s.queueRepair(doc.ID)
		result.VectorPending = true
		return result, nil
	}

	if s.vectorIndex == nil {
		logger.Warn("Document %s stored without vector (no vector index); queued for reconciliation", doc.ID)
		s.queueRepair(doc.ID)
		result.VectorPending = true
		return result, nil
	}

	rec := domain.VectorRecord{
		DocumentID: doc.ID,
		Embedding:  embedding,
		Source:     doc.Source,
		Text:       doc.RawText,
	}
	if err := s.vectorIndex.Upsert(ctx, rec); err != nil {
		logger.Warn("Document %s stored without vector (upsert failed: %v); queued for reconciliation", doc.ID, err)
		s.queueRepair(doc.ID)
		result.VectorPending = true
		return result, nil
	}

	logger.Debug("Ingested document %s (source=%s, %d chars)", doc.ID, doc.Source, len(doc.RawText))
	return result, nil
}

// embed runs the embedder under the configured timeout, translating
// deadline expiry into the domain timeout error.
func (s *IngestService) embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("embedding: %w", domain.ErrTimeout)
		}
		return nil, fmt.Errorf("embedding: %w", err)
	}
	return embedding, nil
}

// findDuplicate returns the ID of an existing document whose vector is
// near-identical to the given embedding, or "" when none clears the
// threshold. Failures are treated as "no duplicate": dedup is best-effort
// and must never block ingestion.
func (s *IngestService) findDuplicate(ctx context.Context, embedding []float32) string {
	if s.vectorIndex == nil {
		return ""
	}
	hits, err := s.vectorIndex.Search(ctx, embedding, 1)
	if err != nil || len(hits) == 0 {
		return ""
	}
	if hits[0].Score >= DuplicateThreshold {
		return hits[0].DocumentID
	}
	return ""
}

func (s *IngestService) queueRepair(docID string) {
	if s.reconciler != nil {
		s.reconciler.Notify(docID)
	}
}
