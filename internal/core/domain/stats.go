package domain

// Stats are the aggregate counts served by the daemon. A divergence
// between TotalDocuments and VectorCount is the health signal for
// ingestion inconsistency.
type Stats struct {
	// TotalDocuments is the row count of the metadata index.
	TotalDocuments int `json:"total_documents"`

	// BySourceType breaks the total down per source type.
	BySourceType map[string]int `json:"by_source_type"`

	// VectorCount is the entry count of the vector index.
	VectorCount int `json:"vector_count"`

	// TotalTags is the number of distinct tag attachments.
	TotalTags int `json:"total_tags"`
}

// InSync reports whether the two indexes agree on document count.
func (s Stats) InSync() bool {
	return s.TotalDocuments == s.VectorCount
}

// TagCount is one distinct tag with its attachment count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ReconcileReport summarises one reconciliation pass over the two indexes.
type ReconcileReport struct {
	// MissingVectors is how many documents had no vector record.
	MissingVectors int `json:"missing_vectors"`

	// Repaired is how many of those were re-vectorised this pass.
	Repaired int `json:"repaired"`

	// OrphanVectors is how many vector records had no document and were
	// removed.
	OrphanVectors int `json:"orphan_vectors"`

	// Failed is how many repairs errored and remain queued.
	Failed int `json:"failed"`
}
