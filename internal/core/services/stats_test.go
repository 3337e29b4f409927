package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promethean-light/mydata/internal/core/domain"
)

func TestStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	seed(t, f, "n1", "a note", []float32{1, 0, 0}, now)
	seed(t, f, "n2", "another note", []float32{0, 1, 0}, now)
	email := &domain.Document{
		ID: "e1", Title: "mail", Content: "mail", RawText: "mail",
		Source: "email://a@b.c/1", SourceType: domain.SourceTypeEmail,
		Tags: []string{"inbox"},
	}
	require.NoError(t, f.docs.SaveDocument(ctx, email))
	require.NoError(t, f.vectors.Upsert(ctx, domain.VectorRecord{DocumentID: "e1", Embedding: []float32{0, 0, 1}}))

	svc := NewStatsService(f.docs, f.vectors, nil)
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, 3, stats.VectorCount)
	assert.Equal(t, 1, stats.TotalTags)
	assert.Equal(t, map[string]int{
		domain.SourceTypeNote:  2,
		domain.SourceTypeEmail: 1,
	}, stats.BySourceType)
	assert.True(t, stats.InSync())
}

func TestStats_DetectsDivergence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Document without a vector record.
	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{
		ID: "d1", Title: "t", Content: "c", RawText: "c",
		Source: "cli", SourceType: domain.SourceTypeNote,
	}))

	svc := NewStatsService(f.docs, f.vectors, nil)
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.Zero(t, stats.VectorCount)
	assert.False(t, stats.InSync())
}

func TestStats_CachedUntilWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cache := NewCache(time.Minute)

	svc := NewStatsService(f.docs, f.vectors, cache)
	ing := NewIngestService(f.docs, f.vectors, f.embedder, nil, cache)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDocuments)

	_, err = ing.AddText(ctx, "new doc", "cli")
	require.NoError(t, err)

	// The write purged the cache; counts are fresh.
	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
}

func TestTags(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	seed(t, f, "d1", "one", []float32{1, 0, 0}, now)
	seed(t, f, "d2", "two", []float32{0, 1, 0}, now)
	require.NoError(t, f.docs.AddTags(ctx, "d1", []string{"work", "urgent"}))
	require.NoError(t, f.docs.AddTags(ctx, "d2", []string{"work"}))

	svc := NewStatsService(f.docs, f.vectors, nil)
	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, domain.TagCount{Tag: "work", Count: 2}, tags[0])
}
