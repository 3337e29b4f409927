package domain

import (
	"strings"
	"time"
	"unicode"
)

// Source type classification for documents.
const (
	SourceTypeEmail = "email"
	SourceTypeFile  = "file"
	SourceTypeNote  = "note"
)

// TitleMaxLen is the maximum length of a derived document title.
const TitleMaxLen = 80

// Document is the unit of storage. One durable row per document lives in
// the metadata index; exactly one VectorRecord mirrors it in the vector
// index, keyed by the same ID.
type Document struct {
	// ID is the unique identifier, assigned at ingestion, immutable.
	ID string

	// Title is an optional short label, derived from the text when the
	// caller supplies none.
	Title string

	// Content is the normalised text used for display and excerpts.
	Content string

	// RawText is the untruncated original text. Never empty.
	RawText string

	// Source identifies provenance ("file:///path", "email://addr/uid",
	// "claude", "cli"). Not unique across documents.
	Source string

	// SourceType is the closed classification tag: email, file or note.
	SourceType string

	// ContentHash is the SHA-256 of the original bytes, set for file
	// ingestion and used for exact-duplicate detection.
	ContentHash string

	// CreatedAt is the ingestion timestamp.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time

	// Tags is the unordered set of labels attached to the document.
	Tags []string
}

// VectorRecord is the vector-index entry derived from a Document. It
// carries a denormalised copy of source and text so search results can be
// served even when the metadata row is unreachable. The copy goes stale if
// the document is re-written without re-ingestion; that is an accepted
// trade-off, repaired by reconciliation.
type VectorRecord struct {
	// DocumentID keys the record to its Document.
	DocumentID string

	// Embedding is the fixed-dimensional vector produced by the embedder.
	Embedding []float32

	// Source mirrors Document.Source.
	Source string

	// Text mirrors the embedded text.
	Text string
}

// IngestResult reports the outcome of an add operation.
type IngestResult struct {
	// ID is the document ID: freshly allocated, or the existing document's
	// ID when the text was recognised as a duplicate.
	ID string

	// Duplicate is true when ingestion was skipped because near-identical
	// content already exists.
	Duplicate bool

	// VectorPending is true when the metadata row committed but the vector
	// write did not; the reconciler will retry it.
	VectorPending bool
}

// ClassifySource maps a raw source string onto a source type, mirroring
// the conventions used by ingestion: email URIs and addresses are emails,
// file URIs and paths are files, everything else is a note.
func ClassifySource(source string) string {
	s := strings.ToLower(source)
	switch {
	case strings.HasPrefix(s, "email://"), strings.Contains(s, "@"), strings.HasPrefix(s, "imap"):
		return SourceTypeEmail
	case strings.HasPrefix(s, "file://"), strings.ContainsAny(s, "/\\"):
		return SourceTypeFile
	default:
		return SourceTypeNote
	}
}

// DeriveTitle produces a short label from document text: the first
// non-empty line, truncated on a rune boundary.
func DeriveTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) <= TitleMaxLen {
			return line
		}
		cut := runes[:TitleMaxLen]
		// Back up to the last word boundary so titles don't end mid-word.
		for i := len(cut) - 1; i > TitleMaxLen/2; i-- {
			if unicode.IsSpace(cut[i]) {
				cut = cut[:i]
				break
			}
		}
		return strings.TrimSpace(string(cut)) + "..."
	}
	return ""
}

// Excerpt returns at most max runes of text, appending an ellipsis when
// truncated.
func Excerpt(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
