package domain

import "time"

// Search limit defaults. Limits are clamped to bound response size and
// embedding cost.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

// ExcerptLen is the number of runes of content returned per search result.
const ExcerptLen = 500

// SearchOptions configures a semantic search.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means DefaultSearchLimit;
	// values above MaxSearchLimit are clamped.
	Limit int

	// MinScore drops candidates below this similarity. Zero disables the
	// threshold.
	MinScore float64
}

// Clamp normalises the options to their allowed ranges.
func (o SearchOptions) Clamp() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.Limit > MaxSearchLimit {
		o.Limit = MaxSearchLimit
	}
	return o
}

// SearchResult is a single ranked hit. Document fields are resolved from
// the metadata index; when that row is missing the vector record's
// denormalised payload fills in Source and Content (degraded mode).
type SearchResult struct {
	// ID is the matched document's ID.
	ID string

	// Title is the document title, empty in degraded mode.
	Title string

	// Score is the cosine similarity of the match.
	Score float64

	// Content is an excerpt of the matched text.
	Content string

	// Source is the document provenance string.
	Source string

	// CreatedAt is the document's ingestion time, zero in degraded mode.
	CreatedAt time.Time

	// Degraded is true when the metadata row was missing and the result
	// was served from the vector record's payload alone.
	Degraded bool
}

// KeywordQuery is a substring filter against the metadata index. It is
// served without touching the vector index, for cases where keyword recall
// beats semantic recall (proper nouns, exact phrases).
type KeywordQuery struct {
	// Contains is matched as a substring of raw_text, title and source.
	Contains string

	// SourceType scopes the query to one source type when non-empty.
	SourceType string

	// Limit caps the result count. Zero means DefaultSearchLimit.
	Limit int
}

// Clamp normalises the query limits.
func (q KeywordQuery) Clamp() KeywordQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	return q
}
