// Package store implements the persistent vector index. The index structure
// is append-only: vectors are stored flat, search is exact inner product
// over L2-normalized vectors (equal to cosine similarity), and removal is a
// full rebuild.
package store

import (
	"math"
	"sort"
	"sync"

	"docrag/internal/domain"
	"docrag/internal/port"
)

// FlatIndex holds chunk embeddings plus positional metadata as one atomic
// unit. Single writer, multiple readers: mutations take the write lock and
// rebuilds swap the whole state under it.
type FlatIndex struct {
	mu        sync.RWMutex
	dir       string // empty for a purely in-memory index
	modelName string

	dimension int           // fixed at first insertion
	vectors   [][]float32   // normalized, position == slice offset
	records   []chunkRecord // ordered, parallel with vectors
	positions map[string]int

	warnings []string
}

// chunkRecord is the persisted per-chunk metadata.
type chunkRecord struct {
	ChunkID    string            `json:"chunk_id"`
	Text       string            `json:"text"`
	SourceFile string            `json:"source_file"`
	PageNumber int               `json:"page_number,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// NewInMemory creates an index without persistence, for tests and ephemeral
// use.
func NewInMemory(modelName string) *FlatIndex {
	return &FlatIndex{
		modelName: modelName,
		positions: make(map[string]int),
	}
}

// Open creates an index persisted under dir, loading any existing state.
// A corrupt or half-written store is never fatal: the index starts empty
// and the condition is reported through Warnings.
func Open(dir, modelName string) (*FlatIndex, error) {
	idx := &FlatIndex{
		dir:       dir,
		modelName: modelName,
		positions: make(map[string]int),
	}
	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Warnings returns non-fatal conditions observed at load time (corrupt
// store recovery, embedding model mismatch).
func (x *FlatIndex) Warnings() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]string(nil), x.warnings...)
}

// Add appends records to the index and persists it. The first call fixes
// the embedding dimension; any later mismatch fails without mutating state.
func (x *FlatIndex) Add(records []port.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	// Validate every embedding before touching state.
	want := x.dimension
	if want == 0 {
		want = len(records[0].Embedding)
	}
	for _, rec := range records {
		if len(rec.Embedding) != want {
			return &domain.DimensionMismatchError{Want: want, Got: len(rec.Embedding)}
		}
	}
	x.dimension = want

	for _, rec := range records {
		pos := len(x.vectors)
		x.vectors = append(x.vectors, normalize(rec.Embedding))
		x.records = append(x.records, recordFromChunk(rec.Chunk))
		x.positions[rec.Chunk.ID] = pos
	}

	return x.save()
}

// Search returns up to k results scoring at or above threshold, best first.
// An empty index yields an empty result.
func (x *FlatIndex) Search(query []float32, k int, threshold float64) ([]domain.SearchResult, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.vectors) == 0 {
		return nil, nil
	}
	if len(query) != x.dimension {
		return nil, &domain.DimensionMismatchError{Want: x.dimension, Got: len(query)}
	}

	q := normalize(query)

	type scored struct {
		pos   int
		score float64
	}
	scores := make([]scored, 0, len(x.vectors))
	for pos, vec := range x.vectors {
		s := dot(q, vec)
		if s < threshold {
			continue
		}
		scores = append(scores, scored{pos: pos, score: s})
	}

	sort.Slice(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if k < len(scores) {
		scores = scores[:k]
	}

	results := make([]domain.SearchResult, len(scores))
	for i, s := range scores {
		results[i] = domain.SearchResult{
			Chunk: x.records[s.pos].toChunk(),
			Score: s.score,
		}
	}
	return results, nil
}

// RemoveBySource drops every record originating from sourceFile. The
// underlying structure has no point deletion, so this rebuilds the index
// from the retained records and swaps it in atomically. O(total chunks).
func (x *FlatIndex) RemoveBySource(sourceFile string) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	removed := 0
	for _, rec := range x.records {
		if rec.SourceFile == sourceFile {
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	// Fresh position space; old positions are never reused.
	vectors := make([][]float32, 0, len(x.vectors)-removed)
	records := make([]chunkRecord, 0, len(x.records)-removed)
	positions := make(map[string]int, len(x.positions)-removed)

	for pos, rec := range x.records {
		if rec.SourceFile == sourceFile {
			continue
		}
		positions[rec.ChunkID] = len(vectors)
		vectors = append(vectors, x.vectors[pos])
		records = append(records, rec)
	}

	x.vectors = vectors
	x.records = records
	x.positions = positions
	if len(x.vectors) == 0 {
		x.dimension = 0
	}

	if err := x.save(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Stats reports the current index contents.
func (x *FlatIndex) Stats() domain.StoreStats {
	x.mu.RLock()
	defer x.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range x.records {
		counts[rec.SourceFile]++
	}

	return domain.StoreStats{
		TotalChunks:  len(x.vectors),
		Dimension:    x.dimension,
		ModelName:    x.modelName,
		SourceCounts: counts,
		DiskBytes:    x.diskBytes(),
	}
}

// Clear drops all records and deletes the persisted files.
func (x *FlatIndex) Clear() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.dimension = 0
	x.vectors = nil
	x.records = nil
	x.positions = make(map[string]int)

	return x.removeFiles()
}

func recordFromChunk(c domain.Chunk) chunkRecord {
	return chunkRecord{
		ChunkID:    c.ID,
		Text:       c.Text,
		SourceFile: c.SourceFile,
		PageNumber: c.PageNumber,
		Metadata:   c.Metadata,
	}
}

func (r chunkRecord) toChunk() domain.Chunk {
	return domain.Chunk{
		ID:         r.ChunkID,
		Text:       r.Text,
		SourceFile: r.SourceFile,
		PageNumber: r.PageNumber,
		Metadata:   r.Metadata,
	}
}

// normalize returns an L2-normalized copy. A zero vector is returned as a
// zero-filled copy rather than dividing by zero.
func normalize(vec []float32) []float32 {
	out := make([]float32, len(vec))
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return out
	}
	norm := float32(math.Sqrt(sum))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
