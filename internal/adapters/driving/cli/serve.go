package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/promethean-light/mydata/internal/adapters/driven/embedding/ollama"
	"github.com/promethean-light/mydata/internal/adapters/driven/storage/sqlite"
	summaryfile "github.com/promethean-light/mydata/internal/adapters/driven/summary/file"
	"github.com/promethean-light/mydata/internal/adapters/driven/vector/qdrant"
	"github.com/promethean-light/mydata/internal/adapters/driving/httpapi"
	"github.com/promethean-light/mydata/internal/adapters/driving/watcher"
	"github.com/promethean-light/mydata/internal/config"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
	"github.com/promethean-light/mydata/internal/core/services"
	"github.com/promethean-light/mydata/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daemon",
	Long: `Starts the HTTP daemon: opens the metadata index, connects to the
vector index and embedder, and serves until interrupted. A missing
vector index or embedder degrades search but never blocks ingestion.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// stack bundles everything the daemon runs on.
type stack struct {
	cfg        *config.Config
	store      *sqlite.Store
	vectors    driven.VectorIndex
	embedder   driven.EmbeddingService
	cache      *services.Cache
	reconciler *services.Reconciler
	ingest     *services.IngestService
	search     *services.SearchService
	stats      *services.StatsService
	summaries  *services.SummaryService
}

// buildStack assembles the daemon's services from configuration. The
// vector index is optional: a connection failure is logged and the stack
// runs metadata-only until reconciliation catches up.
func buildStack(ctx context.Context) (*stack, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening metadata index: %w", err)
	}

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:     cfg.Embedding.BaseURL,
		Model:       cfg.Embedding.Model,
		Timeout:     cfg.EmbeddingTimeout(),
		Dimensions:  cfg.Embedding.Dimensions,
		RequestRate: cfg.Embedding.RequestRate,
	})
	if err := embedder.Ping(ctx); err != nil {
		logger.Warn("Embedder unreachable (%v); ingestion will queue vectors for reconciliation", err)
	}

	var vectors driven.VectorIndex
	qidx, err := qdrant.NewIndex(ctx, cfg.Qdrant.Addr, embedder.Dimensions())
	if err != nil {
		logger.Warn("Vector index unreachable (%v); semantic search disabled until it returns", err)
	} else {
		vectors = qidx
	}

	summariesDir, err := cfg.SummariesDir()
	if err != nil {
		store.Close()
		return nil, err
	}
	summaryStore, err := summaryfile.NewSummaryStore(summariesDir)
	if err != nil {
		store.Close()
		return nil, err
	}

	var cache *services.Cache
	if ttl := cfg.CacheTTL(); ttl >= 0 {
		cache = services.NewCache(ttl)
	}

	reconciler := services.NewReconciler(store, vectors, embedder)
	if interval := cfg.ReconcileInterval(); interval > 0 {
		reconciler.SetInterval(interval)
	}

	ingest := services.NewIngestService(store, vectors, embedder, reconciler, cache)
	if t := cfg.EmbeddingTimeout(); t > 0 {
		ingest.SetEmbedTimeout(t)
	}
	search := services.NewSearchService(store, vectors, embedder, cache)
	if t := cfg.EmbeddingTimeout(); t > 0 {
		search.SetEmbedTimeout(t)
	}

	return &stack{
		cfg:        cfg,
		store:      store,
		vectors:    vectors,
		embedder:   embedder,
		cache:      cache,
		reconciler: reconciler,
		ingest:     ingest,
		search:     search,
		stats:      services.NewStatsService(store, vectors, cache),
		summaries:  services.NewSummaryService(summaryStore),
	}, nil
}

// Close releases the stack's resources.
func (s *stack) Close() {
	if s.vectors != nil {
		s.vectors.Close() //nolint:errcheck
	}
	s.embedder.Close() //nolint:errcheck
	s.store.Close()    //nolint:errcheck
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStack(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	go st.reconciler.Start(ctx)

	if dir := st.cfg.Watcher.Dir; dir != "" {
		w, err := watcher.New(st.ingest, dir)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		go func() {
			if err := w.Start(ctx); err != nil {
				logger.Warn("Watcher stopped: %v", err)
			}
		}()
	}

	server := httpapi.NewServer(
		st.cfg.ListenAddr,
		st.ingest, st.search, st.stats, st.summaries, st.reconciler,
	)
	return server.Run(ctx)
}
