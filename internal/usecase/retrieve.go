package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"docrag/internal/domain"
	"docrag/internal/port"
)

// Retriever answers queries against the vector index. Read-only; safe for
// concurrent use alongside an ingesting writer.
type Retriever struct {
	embedder port.Embedder
	index    port.VectorIndex
}

func NewRetriever(embedder port.Embedder, index port.VectorIndex) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
	}
}

// Search embeds the query and returns up to k hits scoring at or above
// threshold, best first.
func (u *Retriever) Search(ctx context.Context, query string, k int, threshold float64) ([]domain.SearchResult, error) {
	vec, err := u.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return u.index.Search(vec, k, threshold)
}

// RetrieveContext searches and formats the hits into a provenance-tagged
// context block for a language model prompt. No hits yields an empty
// string.
func (u *Retriever) RetrieveContext(ctx context.Context, query string, maxChunks int, threshold float64) (string, error) {
	results, err := u.Search(ctx, query, maxChunks, threshold)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = formatHit(r)
	}
	return strings.Join(blocks, "\n\n---\n\n"), nil
}

// formatHit renders one result with its provenance header. The page is
// omitted for unpaginated formats.
func formatHit(r domain.SearchResult) string {
	source := filepath.Base(r.Chunk.SourceFile)
	if r.Chunk.PageNumber > 0 {
		return fmt.Sprintf("[Source: %s, Page %d, Score: %.3f]\n%s",
			source, r.Chunk.PageNumber, r.Score, r.Chunk.Text)
	}
	return fmt.Sprintf("[Source: %s, Score: %.3f]\n%s", source, r.Score, r.Chunk.Text)
}
