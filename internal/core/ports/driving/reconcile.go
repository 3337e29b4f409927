package driving

import (
	"context"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// ReconcileService repairs divergence between the metadata and vector
// indexes.
type ReconcileService interface {
	// Run performs one reconciliation pass and reports what it found.
	Run(ctx context.Context) (*domain.ReconcileReport, error)
}
