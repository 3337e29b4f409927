package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// fakeDaemon serves canned daemon responses.
func fakeDaemon(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "mydata"})
	})
	engine.POST("/add", func(c *gin.Context) {
		var req map[string]any
		require.NoError(t, c.ShouldBindJSON(&req))
		if req["text"] == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": "doc-1"})
	})
	engine.POST("/search", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"results": []gin.H{
			{"id": "doc-1", "score": 0.92, "content": "hit", "source": "cli"},
		}})
	})
	engine.GET("/documents/:id", func(c *gin.Context) {
		if c.Param("id") != "doc-1" {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": "doc-1", "content": "body", "source_type": "note"})
	})
	engine.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total_documents": 2, "vector_count": 2, "in_sync": true})
	})
	engine.GET("/summary/:name", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{"headcount": 5}`))
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL)
}

func TestProbe(t *testing.T) {
	_, c := fakeDaemon(t)
	assert.NoError(t, c.Probe(context.Background()))
}

func TestProbe_DaemonDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listening any more

	c := New(url)
	err := c.Probe(context.Background())
	assert.ErrorIs(t, err, domain.ErrDaemonUnavailable)
}

func TestAdd(t *testing.T) {
	_, c := fakeDaemon(t)

	result, err := c.Add(context.Background(), "some text", "cli", nil)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", result.ID)
}

func TestAdd_InvalidInput(t *testing.T) {
	_, c := fakeDaemon(t)

	_, err := c.Add(context.Background(), "", "cli", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch(t *testing.T) {
	_, c := fakeDaemon(t)

	results, err := c.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1", results[0].ID)
	assert.InDelta(t, 0.92, results[0].Score, 1e-9)
}

func TestDocument_NotFound(t *testing.T) {
	_, c := fakeDaemon(t)

	_, err := c.Document(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStats(t *testing.T) {
	_, c := fakeDaemon(t)

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.True(t, stats.InSync)
}

func TestSummary(t *testing.T) {
	_, c := fakeDaemon(t)

	payload, err := c.Summary(context.Background(), "india_staff")
	require.NoError(t, err)

	var parsed map[string]int
	require.NoError(t, json.Unmarshal(payload, &parsed))
	assert.Equal(t, 5, parsed["headcount"])
}
