package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDaemon serves canned daemon responses for command output tests.
func fakeDaemon(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "mydata"})
	})
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"total_documents": 3,
			"by_source_type":  gin.H{"note": 2, "file": 1},
			"vector_count":    3,
			"total_tags":      1,
			"in_sync":         true,
		})
	})
	r.GET("/tags", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tags": []gin.H{{"tag": "work", "count": 2}}})
	})
	r.POST("/add", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": "doc-1", "duplicate": false, "vector_pending": false})
	})
	r.POST("/search", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"results": []gin.H{
			{"id": "doc-1", "title": "Standup notes", "score": 0.91, "content": "Discussed the rollout."},
		}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestStatsCommand(t *testing.T) {
	srv := fakeDaemon(t)

	out, err := execute(t, "--addr", srv.URL, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "note")
	assert.Contains(t, out, "in sync")
}

func TestTagsCommand(t *testing.T) {
	srv := fakeDaemon(t)

	out, err := execute(t, "--addr", srv.URL, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "2")
}

func TestAddCommand(t *testing.T) {
	srv := fakeDaemon(t)

	out, err := execute(t, "--addr", srv.URL, "add", "remember the milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored doc-1")
}

func TestSearchCommand(t *testing.T) {
	srv := fakeDaemon(t)

	out, err := execute(t, "--addr", srv.URL, "search", "rollout")
	require.NoError(t, err)
	assert.Contains(t, out, "Standup notes")
	assert.Contains(t, out, "0.91")
}

func TestStatusCommand_DaemonDown(t *testing.T) {
	srv := fakeDaemon(t)
	addr := srv.URL
	srv.Close()

	out, err := execute(t, "--addr", addr, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not running")
}
