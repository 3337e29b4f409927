package driven

import (
	"context"
	"encoding/json"
)

// SummaryStore serves precomputed named summaries. Payloads are refreshed
// by a process outside the request path; the store returns them verbatim.
type SummaryStore interface {
	// Get returns the payload for a recognised summary name, or
	// domain.ErrNotFound.
	Get(ctx context.Context, name string) (json.RawMessage, error)

	// Names returns the recognised summary names.
	Names(ctx context.Context) ([]string, error)
}
