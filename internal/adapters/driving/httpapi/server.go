// Package httpapi exposes the store over HTTP.
//
// The daemon listens on a loopback address by default and serves the
// same operations the CLI uses: ingestion, semantic and keyword search,
// stats, tags and precomputed summaries.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driving"
	"github.com/promethean-light/mydata/internal/logger"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end of the daemon.
type Server struct {
	ingest    driving.IngestService
	search    driving.SearchService
	stats     driving.StatsService
	summaries driving.SummaryService
	reconcile driving.ReconcileService
	addr      string
	engine    *gin.Engine
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(
	addr string,
	ingest driving.IngestService,
	search driving.SearchService,
	stats driving.StatsService,
	summaries driving.SummaryService,
	reconcile driving.ReconcileService,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		ingest:    ingest,
		search:    search,
		stats:     stats,
		summaries: summaries,
		reconcile: reconcile,
		addr:      addr,
		engine:    engine,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleHealth)
	s.engine.POST("/add", s.handleAdd)
	s.engine.POST("/search", s.handleSearch)
	s.engine.POST("/search/keyword", s.handleKeywordSearch)
	s.engine.GET("/documents/:id", s.handleGetDocument)
	s.engine.GET("/stats", s.handleStats)
	s.engine.GET("/tags", s.handleTags)
	s.engine.GET("/summary/:name", s.handleSummary)
	s.engine.POST("/admin/reconcile", s.handleReconcile)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrVectorIndexUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes a JSON error response.
func fail(c *gin.Context, err error) {
	c.IndentedJSON(statusFor(err), gin.H{"error": err.Error()})
}
