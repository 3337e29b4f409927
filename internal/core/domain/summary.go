package domain

import "encoding/json"

// Summary is a named, precomputed aggregate view. Payloads are generated
// out-of-band and served verbatim with zero embedding cost; the store does
// not validate their freshness.
type Summary struct {
	// Name is the unique key ("india_staff", "retention_bonuses", ...).
	// The recognised set is fixed for the lifetime of the daemon.
	Name string

	// Payload is arbitrary JSON served as-is.
	Payload json.RawMessage
}
