package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySource(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"email://alice@example.com/42", SourceTypeEmail},
		{"bob@example.com", SourceTypeEmail},
		{"imap://mail.example.com", SourceTypeEmail},
		{"file:///home/me/notes.txt", SourceTypeFile},
		{"/var/data/dump.txt", SourceTypeFile},
		{`C:\Users\me\doc.txt`, SourceTypeFile},
		{"api", SourceTypeNote},
		{"cli", SourceTypeNote},
		{"claude", SourceTypeNote},
		{"", SourceTypeNote},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifySource(tc.source), "source %q", tc.source)
	}
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "First line", DeriveTitle("First line\nsecond line"))
	assert.Equal(t, "Trimmed", DeriveTitle("  \n\n  Trimmed  \nrest"))
	assert.Equal(t, "", DeriveTitle("   \n\t\n"))
}

func TestDeriveTitle_TruncatesOnWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 40) // well past the cap
	title := DeriveTitle(long)

	assert.LessOrEqual(t, len([]rune(title)), TitleMaxLen+3)
	assert.True(t, strings.HasSuffix(title, "..."))
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(title, "..."), "wor"),
		"title must not end mid-word")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "abc...", Excerpt("abcdef", 3))

	// Rune-safe truncation.
	assert.Equal(t, "日本...", Excerpt("日本語のテキスト", 2))
}

func TestSearchOptions_Clamp(t *testing.T) {
	assert.Equal(t, DefaultSearchLimit, SearchOptions{}.Clamp().Limit)
	assert.Equal(t, DefaultSearchLimit, SearchOptions{Limit: -5}.Clamp().Limit)
	assert.Equal(t, MaxSearchLimit, SearchOptions{Limit: 10_000}.Clamp().Limit)
	assert.Equal(t, 7, SearchOptions{Limit: 7}.Clamp().Limit)
}

func TestStats_InSync(t *testing.T) {
	assert.True(t, Stats{TotalDocuments: 3, VectorCount: 3}.InSync())
	assert.False(t, Stats{TotalDocuments: 3, VectorCount: 2}.InSync())
}
