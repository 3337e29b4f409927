// Package watcher ingests files dropped into a watched directory. Any
// file that appears is added to the store through the normal ingestion
// path, so content-hash dedup makes repeated drops harmless.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driving"
	"github.com/promethean-light/mydata/internal/logger"
)

// settleDelay is how long a file must be quiet before ingestion, so
// partially written files are not picked up mid-copy.
const settleDelay = 500 * time.Millisecond

// Watcher ingests files dropped into one directory.
type Watcher struct {
	ingest driving.IngestService
	dir    string
}

// New creates a watcher over dir. The directory is created if missing.
func New(ingest driving.IngestService, dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &Watcher{ingest: ingest, dir: dir}, nil
}

// Start watches the directory until ctx is done. Files already present
// at startup are ingested first, so nothing dropped while the daemon was
// down is missed.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	logger.Info("Watching %s for dropped files", w.dir)
	w.sweep(ctx)

	// Pending files and their last event time; ingested once quiet.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settleDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if ignorable(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settleDelay {
					continue
				}
				delete(pending, path)
				w.ingestFile(ctx, path)
			}
		}
	}
}

// sweep ingests files already sitting in the directory.
func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("Reading watch directory: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || ignorable(entry.Name()) {
			continue
		}
		w.ingestFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	result, err := w.ingest.AddFile(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			logger.Debug("Skipping %s: %v", path, err)
			return
		}
		logger.Warn("Ingesting %s failed: %v", path, err)
		return
	}

	if result.Duplicate {
		logger.Debug("File %s already stored as %s", path, result.ID)
		return
	}
	logger.Info("Ingested dropped file %s as %s", path, result.ID)
}

// ignorable filters editor droppings and hidden files.
func ignorable(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp")
}
