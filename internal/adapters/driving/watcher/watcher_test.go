package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promethean-light/mydata/internal/core/domain"
)

// recordingIngest captures AddFile calls.
type recordingIngest struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingIngest) AddText(_ context.Context, _, _ string) (*domain.IngestResult, error) {
	return &domain.IngestResult{ID: "x"}, nil
}

func (r *recordingIngest) AddFile(_ context.Context, path string) (*domain.IngestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return &domain.IngestResult{ID: "doc-" + filepath.Base(path)}, nil
}

func (r *recordingIngest) Tag(_ context.Context, _ string, _ []string) error {
	return nil
}

func (r *recordingIngest) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestWatcher_IngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}

	w, err := New(ingest, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Start(ctx)
		close(done)
	}()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "dropped.txt")
	require.NoError(t, os.WriteFile(path, []byte("dropped content"), 0600))

	require.Eventually(t, func() bool {
		for _, p := range ingest.seen() {
			if p == path {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done
}

func TestWatcher_SweepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preexisting.txt")
	require.NoError(t, os.WriteFile(path, []byte("already here"), 0600))
	// Hidden files are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0600))

	ingest := &recordingIngest{}
	w, err := New(ingest, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(ingest.seen()) == 1
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, []string{path}, ingest.seen())

	cancel()
	<-done
}

func TestIgnorable(t *testing.T) {
	assert.True(t, ignorable(".hidden"))
	assert.True(t, ignorable("notes.txt~"))
	assert.True(t, ignorable("buffer.swp"))
	assert.True(t, ignorable("partial.tmp"))
	assert.False(t, ignorable("notes.txt"))
}

func TestWatcher_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	_, err := New(&recordingIngest{}, dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
