package services

import (
	"context"

	"github.com/promethean-light/mydata/internal/adapters/driven/storage/memory"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
)

// stubEmbedder returns canned vectors per text, or a fixed error. Texts
// without an assigned vector get a constant fallback.
type stubEmbedder struct {
	vectors map[string][]float32
	fail    error
	calls   int
}

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: make(map[string][]float32)}
}

func (e *stubEmbedder) assign(text string, vec []float32) *stubEmbedder {
	e.vectors[text] = vec
	return e
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	if vec, ok := e.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int               { return 3 }
func (e *stubEmbedder) ModelName() string             { return "stub" }
func (e *stubEmbedder) Ping(_ context.Context) error  { return e.fail }
func (e *stubEmbedder) Close() error                  { return nil }

// fixture bundles the stores every service test needs.
type fixture struct {
	docs     *memory.DocumentStore
	vectors  *memory.VectorIndex
	embedder *stubEmbedder
}

func newFixture() *fixture {
	return &fixture{
		docs:     memory.NewDocumentStore(),
		vectors:  memory.NewVectorIndex(),
		embedder: newStubEmbedder(),
	}
}

func (f *fixture) ingest() *IngestService {
	return NewIngestService(f.docs, f.vectors, f.embedder, nil, nil)
}

func (f *fixture) search(cache *Cache) *SearchService {
	return NewSearchService(f.docs, f.vectors, f.embedder, cache)
}
