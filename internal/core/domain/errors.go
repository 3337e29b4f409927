package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or empty input. Never retried;
	// reported verbatim to the caller.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInconsistent indicates a document without a matching vector
	// record, or vice versa. Logged and queued for reconciliation; never
	// surfaced as a hard failure of the request that detected it.
	ErrInconsistent = errors.New("index inconsistency")

	// ErrTimeout indicates an embedder or index call exceeded its bound.
	ErrTimeout = errors.New("operation timed out")

	// ErrDaemonUnavailable indicates the daemon could not be reached.
	// This is a caller-side condition, surfaced as a friendly message.
	ErrDaemonUnavailable = errors.New("daemon not running")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search and ingestion vectorisation are disabled.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured. Semantic similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
