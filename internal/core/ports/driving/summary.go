package driving

import (
	"context"
	"encoding/json"
)

// SummaryService serves precomputed summaries by name.
type SummaryService interface {
	// Get returns the cached payload verbatim, or domain.ErrNotFound for
	// an unrecognised name.
	Get(ctx context.Context, name string) (json.RawMessage, error)

	// Names lists the recognised summary names.
	Names(ctx context.Context) ([]string, error)
}
