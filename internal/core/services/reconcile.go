package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
	"github.com/promethean-light/mydata/internal/core/ports/driving"
	"github.com/promethean-light/mydata/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.ReconcileService = (*Reconciler)(nil)

// Reconciler defaults.
const (
	// DefaultReconcileInterval is how often a full pass runs in the
	// background.
	DefaultReconcileInterval = 10 * time.Minute

	// DefaultRepairRate caps re-embedding throughput so a large backlog
	// cannot saturate the embedder while live requests are in flight.
	DefaultRepairRate = 2 // embeddings per second

	// notifyBuffer bounds the queue of freshly failed document IDs. A
	// full buffer is fine: the periodic pass picks up anything dropped.
	notifyBuffer = 256
)

// Reconciler detects and repairs divergence between the metadata index
// and the vector index: documents without vector records are re-embedded
// and re-indexed, vector records without documents are removed.
type Reconciler struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	embedder    driven.EmbeddingService
	limiter     *rate.Limiter
	notify      chan string
	interval    time.Duration
}

// NewReconciler creates a reconciler.
func NewReconciler(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
) *Reconciler {
	return &Reconciler{
		docStore:    docStore,
		vectorIndex: vectorIndex,
		embedder:    embedder,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRepairRate), DefaultRepairRate),
		notify:      make(chan string, notifyBuffer),
		interval:    DefaultReconcileInterval,
	}
}

// SetInterval overrides the background pass interval.
func (r *Reconciler) SetInterval(d time.Duration) {
	if d > 0 {
		r.interval = d
	}
}

// Notify queues a document for repair without blocking the caller. Used
// by ingestion when a vector write fails.
func (r *Reconciler) Notify(docID string) {
	select {
	case r.notify <- docID:
	default:
		// Queue full; the next periodic pass will find it.
	}
}

// Start runs the background loop: queued repairs are handled as they
// arrive, and a full pass runs every interval. Blocks until ctx is done.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info("Reconciler running (interval %s)", r.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case docID := <-r.notify:
			if err := r.repairDocument(ctx, docID); err != nil {
				logger.Warn("Reconcile repair of %s failed: %v", docID, err)
			}
		case <-ticker.C:
			report, err := r.Run(ctx)
			if err != nil {
				logger.Warn("Reconcile pass failed: %v", err)
				continue
			}
			if report.MissingVectors > 0 || report.OrphanVectors > 0 {
				logger.Info("Reconcile pass: repaired %d/%d missing vectors, removed %d orphans",
					report.Repaired, report.MissingVectors, report.OrphanVectors)
			}
		}
	}
}

// Run performs one full reconciliation pass, comparing identifier sets
// between the two indexes.
func (r *Reconciler) Run(ctx context.Context) (*domain.ReconcileReport, error) {
	if r.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	docIDs, err := r.docStore.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	vecIDs, err := r.vectorIndex.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing vectors: %w", err)
	}

	vecSet := make(map[string]bool, len(vecIDs))
	for _, id := range vecIDs {
		vecSet[id] = true
	}
	docSet := make(map[string]bool, len(docIDs))
	for _, id := range docIDs {
		docSet[id] = true
	}

	report := &domain.ReconcileReport{}

	for _, id := range docIDs {
		if vecSet[id] {
			continue
		}
		report.MissingVectors++
		if err := r.repairDocument(ctx, id); err != nil {
			logger.Warn("Reconcile: re-vectorising %s failed: %v", id, err)
			report.Failed++
			continue
		}
		report.Repaired++
	}

	for _, id := range vecIDs {
		if docSet[id] {
			continue
		}
		report.OrphanVectors++
		if err := r.vectorIndex.Delete(ctx, id); err != nil {
			logger.Warn("Reconcile: removing orphan vector %s failed: %v", id, err)
			report.Failed++
		}
	}

	return report, nil
}

// repairDocument re-embeds one document and writes its vector record,
// pacing embedder calls through the rate limiter.
func (r *Reconciler) repairDocument(ctx context.Context, docID string) error {
	if r.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}
	if r.vectorIndex == nil {
		return domain.ErrVectorIndexUnavailable
	}

	doc, err := r.docStore.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}

	embedding, err := r.embedder.Embed(ctx, doc.RawText)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	rec := domain.VectorRecord{
		DocumentID: doc.ID,
		Embedding:  embedding,
		Source:     doc.Source,
		Text:       doc.RawText,
	}
	if err := r.vectorIndex.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("upserting vector: %w", err)
	}

	logger.Debug("Reconciled document %s", docID)
	return nil
}
