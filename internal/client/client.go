// Package client is the HTTP client for a running daemon. The CLI talks
// to the daemon through it; a connection failure surfaces as
// domain.ErrDaemonUnavailable so callers can print one consistent
// "Daemon not running" message instead of a raw dial error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// DefaultBaseURL is where the daemon listens by default.
const DefaultBaseURL = "http://127.0.0.1:8000"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 60 * time.Second

// Client talks to a running daemon.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a client. An empty baseURL uses DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: baseURL,
	}
}

// AddResult reports an ingestion outcome.
type AddResult struct {
	ID            string `json:"id"`
	Duplicate     bool   `json:"duplicate"`
	VectorPending bool   `json:"vector_pending"`
}

// SearchResult is one ranked hit.
type SearchResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Score     float64   `json:"score"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Degraded  bool      `json:"degraded"`
}

// Document is a single stored document.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	SourceType string    `json:"source_type"`
	CreatedAt  time.Time `json:"created_at"`
	Tags       []string  `json:"tags"`
}

// Stats mirrors the daemon's GET /stats response.
type Stats struct {
	TotalDocuments int            `json:"total_documents"`
	BySourceType   map[string]int `json:"by_source_type"`
	VectorCount    int            `json:"vector_count"`
	TotalTags      int            `json:"total_tags"`
	InSync         bool           `json:"in_sync"`
}

// Probe checks whether the daemon is reachable.
func (c *Client) Probe(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/", &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("daemon reported status %q", health.Status)
	}
	return nil
}

// Add ingests text with an optional source and tags.
func (c *Client) Add(ctx context.Context, text, source string, tags []string) (*AddResult, error) {
	req := map[string]any{"text": text}
	if source != "" {
		req["source"] = source
	}
	if len(tags) > 0 {
		req["tags"] = tags
	}

	var result AddResult
	if err := c.post(ctx, "/add", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search runs a semantic query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	req := map[string]any{"query": query}
	if limit > 0 {
		req["limit"] = limit
	}

	var resp struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.post(ctx, "/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Grep runs a keyword query against the metadata index.
func (c *Client) Grep(ctx context.Context, contains, sourceType string, limit int) ([]Document, error) {
	req := map[string]any{"contains": contains}
	if sourceType != "" {
		req["source_type"] = sourceType
	}
	if limit > 0 {
		req["limit"] = limit
	}

	var resp struct {
		Results []Document `json:"results"`
	}
	if err := c.post(ctx, "/search/keyword", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Document fetches one document by ID.
func (c *Client) Document(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := c.get(ctx, "/documents/"+id, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Stats fetches aggregate counts.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.get(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Tags fetches all tags with counts.
func (c *Client) Tags(ctx context.Context) ([]domain.TagCount, error) {
	var resp struct {
		Tags []domain.TagCount `json:"tags"`
	}
	if err := c.get(ctx, "/tags", &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// Summary fetches a precomputed summary payload verbatim.
func (c *Client) Summary(ctx context.Context, name string) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := c.get(ctx, "/summary/"+name, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Reconcile triggers a reconciliation pass.
func (c *Client) Reconcile(ctx context.Context) (*domain.ReconcileReport, error) {
	var report domain.ReconcileReport
	if err := c.post(ctx, "/admin/reconcile", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// A refused connection means no daemon is listening.
		return fmt.Errorf("daemon not running at %s: %w", c.baseURL, domain.ErrDaemonUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeError maps an HTTP error response back to a domain error.
func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, domain.ErrInvalidInput)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	case http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, domain.ErrTimeout)
	default:
		return fmt.Errorf("daemon error (status %d): %s", resp.StatusCode, msg)
	}
}
