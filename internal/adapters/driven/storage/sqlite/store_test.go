package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promethean-light/mydata/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDocument(id, text string) *domain.Document {
	return &domain.Document{
		ID:         id,
		Title:      domain.DeriveTitle(text),
		Content:    text,
		RawText:    text,
		Source:     "api",
		SourceType: domain.SourceTypeNote,
	}
}

func TestStore_SaveAndGetDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "Quarterly planning notes\nBudget review next week")
	doc.Tags = []string{"planning", "budget"}

	require.NoError(t, store.SaveDocument(ctx, doc))
	assert.False(t, doc.CreatedAt.IsZero(), "SaveDocument should set CreatedAt")

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.RawText, got.RawText)
	assert.Equal(t, domain.SourceTypeNote, got.SourceType)
	assert.ElementsMatch(t, []string{"planning", "budget"}, got.Tags)
}

func TestStore_GetDocument_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveDocument_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "first version")
	require.NoError(t, store.SaveDocument(ctx, doc))
	created := doc.CreatedAt

	doc.RawText = "second version"
	doc.Content = "second version"
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "second version", got.RawText)
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix(), "upsert should preserve CreatedAt")

	count, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_DeleteDocument_CascadesTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "to be removed")
	doc.Tags = []string{"temp"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestStore_FindByContentHash(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "file contents")
	doc.ContentHash = "abc123"
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.FindByContentHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)

	_, err = store.FindByContentHash(ctx, "other")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Empty hashes never match anything.
	_, err = store.FindByContentHash(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_KeywordSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []*domain.Document{
		testDocument("doc-1", "Khadija was awarded a retention bonus"),
		testDocument("doc-2", "Weekly sync notes, nothing about bonuses"),
		testDocument("doc-3", "Unrelated grocery list"),
	}
	docs[1].SourceType = domain.SourceTypeEmail
	for i, doc := range docs {
		doc.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveDocument(ctx, doc))
	}

	results, err := store.KeywordSearch(ctx, domain.KeywordQuery{Contains: "bonus"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Newest first.
	assert.Equal(t, "doc-2", results[0].ID)
	assert.Equal(t, "doc-1", results[1].ID)

	results, err = store.KeywordSearch(ctx, domain.KeywordQuery{
		Contains:   "bonus",
		SourceType: domain.SourceTypeEmail,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-2", results[0].ID)
}

func TestStore_KeywordSearch_EscapesWildcards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", "progress at 100% complete")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2", "no percent sign here")))

	results, err := store.KeywordSearch(ctx, domain.KeywordQuery{Contains: "100%"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1", results[0].ID)
}

func TestStore_KeywordSearch_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		doc := testDocument(string(rune('a'+i)), "shared term")
		require.NoError(t, store.SaveDocument(ctx, doc))
	}

	results, err := store.KeywordSearch(ctx, domain.KeywordQuery{Contains: "shared", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStore_AddTagsAndListTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", "alpha")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2", "beta")))

	require.NoError(t, store.AddTags(ctx, "doc-1", []string{"work", "urgent"}))
	require.NoError(t, store.AddTags(ctx, "doc-2", []string{"work"}))

	// Duplicates are ignored.
	require.NoError(t, store.AddTags(ctx, "doc-1", []string{"work"}))

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, domain.TagCount{Tag: "work", Count: 2}, tags[0])
	assert.Equal(t, domain.TagCount{Tag: "urgent", Count: 1}, tags[1])

	err = store.AddTags(ctx, "missing", []string{"x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CountBySourceType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	note := testDocument("doc-1", "a note")
	email := testDocument("doc-2", "an email")
	email.SourceType = domain.SourceTypeEmail
	email2 := testDocument("doc-3", "another email")
	email2.SourceType = domain.SourceTypeEmail

	for _, doc := range []*domain.Document{note, email, email2} {
		require.NoError(t, store.SaveDocument(ctx, doc))
	}

	counts, err := store.CountBySourceType(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		domain.SourceTypeNote:  1,
		domain.SourceTypeEmail: 2,
	}, counts)
}

func TestStore_ListIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", "one")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2", "two")))

	ids, err := store.ListIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-1", "doc-2"}, ids)
}

func TestStore_ReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", "persisted")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.RawText)
}
