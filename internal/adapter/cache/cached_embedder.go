package cache

import (
	"context"

	"docrag/internal/port"
)

// CachedEmbedder wraps an Embedder with a persistent cache. Lookups are
// keyed by model name and exact text.
type CachedEmbedder struct {
	embedder port.Embedder
	cache    *EmbeddingCache
}

func NewCachedEmbedder(embedder port.Embedder, cache *EmbeddingCache) *CachedEmbedder {
	return &CachedEmbedder{
		embedder: embedder,
		cache:    cache,
	}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, hit := e.cache.Get(e.embedder.ModelName(), text); hit {
		return vec, nil
	}

	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	// A failed cache write only costs a future re-embed.
	_ = e.cache.Put(e.embedder.ModelName(), text, vec)

	return vec, nil
}

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

func (e *CachedEmbedder) ModelName() string {
	return e.embedder.ModelName()
}
