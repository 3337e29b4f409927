package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// addRequest is the POST /add payload.
type addRequest struct {
	Text   string   `json:"text"`
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}

// addResponse reports an ingestion outcome.
type addResponse struct {
	ID            string `json:"id"`
	Duplicate     bool   `json:"duplicate,omitempty"`
	VectorPending bool   `json:"vector_pending,omitempty"`
}

// searchRequest is the POST /search payload.
type searchRequest struct {
	Query    string  `json:"query"`
	Limit    int     `json:"limit"`
	MinScore float64 `json:"min_score"`
}

// searchResult is one ranked hit on the wire.
type searchResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Score     float64   `json:"score"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	Degraded  bool      `json:"degraded,omitempty"`
}

// keywordRequest is the POST /search/keyword payload.
type keywordRequest struct {
	Contains   string `json:"contains"`
	SourceType string `json:"source_type"`
	Limit      int    `json:"limit"`
}

// documentResponse is a single document on the wire. Content is
// truncated to an excerpt; RawText never leaves the daemon wholesale.
type documentResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	SourceType string    `json:"source_type"`
	CreatedAt  time.Time `json:"created_at"`
	Tags       []string  `json:"tags"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok", "service": "mydata"})
}

func (s *Server) handleAdd(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	result, err := s.ingest.AddText(c.Request.Context(), req.Text, req.Source)
	if err != nil {
		fail(c, err)
		return
	}

	if len(req.Tags) > 0 && !result.Duplicate {
		if err := s.ingest.Tag(c.Request.Context(), result.ID, req.Tags); err != nil {
			fail(c, err)
			return
		}
	}

	c.IndentedJSON(http.StatusOK, addResponse{
		ID:            result.ID,
		Duplicate:     result.Duplicate,
		VectorPending: result.VectorPending,
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	results, err := s.search.Search(c.Request.Context(), req.Query, domain.SearchOptions{
		Limit:    req.Limit,
		MinScore: req.MinScore,
	})
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]searchResult, 0, len(results))
	for _, r := range results {
		out = append(out, searchResult{
			ID:        r.ID,
			Title:     r.Title,
			Score:     r.Score,
			Content:   r.Content,
			Source:    r.Source,
			CreatedAt: r.CreatedAt,
			Degraded:  r.Degraded,
		})
	}
	c.IndentedJSON(http.StatusOK, gin.H{"results": out})
}

func (s *Server) handleKeywordSearch(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	docs, err := s.search.Keyword(c.Request.Context(), domain.KeywordQuery{
		Contains:   req.Contains,
		SourceType: req.SourceType,
		Limit:      req.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(&doc))
	}
	c.IndentedJSON(http.StatusOK, gin.H{"results": out})
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.search.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.stats.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"total_documents": stats.TotalDocuments,
		"by_source_type":  stats.BySourceType,
		"vector_count":    stats.VectorCount,
		"total_tags":      stats.TotalTags,
		"in_sync":         stats.InSync(),
	})
}

func (s *Server) handleTags(c *gin.Context) {
	tags, err := s.stats.Tags(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"tags": tags})
}

func (s *Server) handleSummary(c *gin.Context) {
	payload, err := s.summaries.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (s *Server) handleReconcile(c *gin.Context) {
	report, err := s.reconcile.Run(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, report)
}

func toDocumentResponse(doc *domain.Document) documentResponse {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return documentResponse{
		ID:         doc.ID,
		Title:      doc.Title,
		Content:    domain.Excerpt(doc.Content, domain.ExcerptLen),
		Source:     doc.Source,
		SourceType: doc.SourceType,
		CreatedAt:  doc.CreatedAt,
		Tags:       tags,
	}
}
