package port

import "docrag/internal/domain"

// VectorRecord is one chunk plus its embedding, ready for indexing.
type VectorRecord struct {
	Chunk     domain.Chunk
	Embedding []float32
}

// VectorIndex stores chunk embeddings and serves nearest-neighbor search.
// The underlying structure is append-only; removal is rebuild-based.
type VectorIndex interface {
	// Add appends records. The first call fixes the embedding dimension;
	// later mismatches fail with *domain.DimensionMismatchError without
	// mutating the index.
	Add(records []VectorRecord) error

	// Search returns up to k results above threshold in descending score
	// order. An empty index yields an empty result, not an error.
	Search(query []float32, k int, threshold float64) ([]domain.SearchResult, error)

	// RemoveBySource drops every record originating from sourceFile by
	// rebuilding the index. O(total chunks); a maintenance operation,
	// not a hot path.
	RemoveBySource(sourceFile string) (int, error)

	// Stats reports the current index contents.
	Stats() domain.StoreStats

	// Clear drops all records and any persisted files.
	Clear() error
}
