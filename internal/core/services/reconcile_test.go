package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promethean-light/mydata/internal/core/domain"
)

func TestReconcile_RepairsMissingVectors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Two documents, only one mirrored in the vector index.
	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{
		ID: "indexed", Title: "t", Content: "c", RawText: "indexed text",
		Source: "cli", SourceType: domain.SourceTypeNote,
	}))
	require.NoError(t, f.vectors.Upsert(ctx, domain.VectorRecord{
		DocumentID: "indexed", Embedding: []float32{1, 0, 0},
	}))
	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{
		ID: "missing", Title: "t", Content: "c", RawText: "missing text",
		Source: "cli", SourceType: domain.SourceTypeNote,
	}))

	rec := NewReconciler(f.docs, f.vectors, f.embedder)
	report, err := rec.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.MissingVectors)
	assert.Equal(t, 1, report.Repaired)
	assert.Zero(t, report.OrphanVectors)
	assert.Zero(t, report.Failed)

	got, err := f.vectors.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "missing text", got.Text)
}

func TestReconcile_RemovesOrphanVectors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.vectors.Upsert(ctx, domain.VectorRecord{
		DocumentID: "ghost", Embedding: []float32{1, 0, 0},
	}))

	rec := NewReconciler(f.docs, f.vectors, f.embedder)
	report, err := rec.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.OrphanVectors)
	count, err := f.vectors.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReconcile_NothingToDo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec := NewReconciler(f.docs, f.vectors, f.embedder)
	report, err := rec.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.ReconcileReport{}, report)
}

func TestReconcile_ReportsFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{
		ID: "broken", Title: "t", Content: "c", RawText: "text",
		Source: "cli", SourceType: domain.SourceTypeNote,
	}))
	f.embedder.fail = assert.AnError

	rec := NewReconciler(f.docs, f.vectors, f.embedder)
	report, err := rec.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.MissingVectors)
	assert.Zero(t, report.Repaired)
	assert.Equal(t, 1, report.Failed)
}

func TestReconcile_StartHandlesNotifications(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{
		ID: "notified", Title: "t", Content: "c", RawText: "text",
		Source: "cli", SourceType: domain.SourceTypeNote,
	}))

	rec := NewReconciler(f.docs, f.vectors, f.embedder)
	rec.SetInterval(time.Hour) // only the notification path should fire

	done := make(chan struct{})
	go func() {
		rec.Start(ctx)
		close(done)
	}()

	rec.Notify("notified")

	require.Eventually(t, func() bool {
		_, err := f.vectors.Get(context.Background(), "notified")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
