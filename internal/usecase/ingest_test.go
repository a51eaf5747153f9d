package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docrag/internal/adapter/catalog"
	"docrag/internal/adapter/chunker"
	"docrag/internal/adapter/embedding"
	"docrag/internal/adapter/extractor"
	"docrag/internal/adapter/fs"
	"docrag/internal/adapter/store"
	"docrag/internal/domain"
	"docrag/internal/port"
)

type fixture struct {
	root     string
	ingestor *Ingestor
	index    *store.FlatIndex
	catalog  *catalog.FileCatalog
}

func newFixture(t *testing.T, embedder port.Embedder) *fixture {
	t.Helper()

	root := t.TempDir()
	cat, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatal(err)
	}
	if embedder == nil {
		embedder = embedding.NewMockEmbedder(8)
	}
	index := store.NewInMemory(embedder.ModelName())

	return &fixture{
		root: root,
		ingestor: NewIngestor(
			root,
			fs.NewWalker(nil, nil),
			extractor.New(),
			chunker.NewTextChunker(50, 10),
			embedder,
			index,
			cat,
		),
		index:   index,
		catalog: cat,
	}
}

func (f *fixture) writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.root, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestAllInitialRun(t *testing.T) {
	f := newFixture(t, nil)
	f.writeDoc(t, "a.txt", "Alpha document body with enough text to produce at least one chunk.")
	f.writeDoc(t, "b.txt", "Beta document body, also long enough for a chunk or two of text here.")

	result, err := f.ingestor.IngestAll(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.DocumentsFound != 2 || result.DocumentsProcessed != 2 {
		t.Errorf("unexpected counts: %+v", result)
	}
	if result.ChunksCreated == 0 {
		t.Error("no chunks created")
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if f.catalog.Len() != 2 {
		t.Errorf("expected 2 catalog entries, got %d", f.catalog.Len())
	}
	if stats := f.index.Stats(); stats.TotalChunks != result.ChunksCreated {
		t.Errorf("index has %d chunks, result claims %d", stats.TotalChunks, result.ChunksCreated)
	}
}

func TestIngestAllIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	f.writeDoc(t, "a.txt", "Document content that spans enough characters to be chunked properly.")

	if _, err := f.ingestor.IngestAll(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	before := f.index.Stats().TotalChunks

	result, err := f.ingestor.IngestAll(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.DocumentsProcessed != 0 || result.DocumentsSkipped != 1 {
		t.Errorf("re-run should skip the unchanged document: %+v", result)
	}
	if after := f.index.Stats().TotalChunks; after != before {
		t.Errorf("re-run changed chunk count from %d to %d", before, after)
	}
}

func TestIngestAllModifiedDocumentNoDuplicates(t *testing.T) {
	f := newFixture(t, nil)
	path := f.writeDoc(t, "a.txt", "Original content that is long enough to produce a couple of chunks here.")

	if _, err := f.ingestor.IngestAll(context.Background(), false); err != nil {
		t.Fatal(err)
	}

	// Rewrite and push the mtime past the recorded ingestion time.
	if err := os.WriteFile(path, []byte("Replacement content, also long enough for chunking to produce output."), 0644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	result, err := f.ingestor.IngestAll(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.DocumentsProcessed != 1 {
		t.Fatalf("modified document not reprocessed: %+v", result)
	}

	stats := f.index.Stats()
	if stats.SourceCounts[path] != result.ChunksCreated {
		t.Errorf("expected %d chunks for %s after reprocess, index has %d (duplicates?)",
			result.ChunksCreated, path, stats.SourceCounts[path])
	}
}

func TestIngestAllForceReprocesses(t *testing.T) {
	f := newFixture(t, nil)
	f.writeDoc(t, "a.txt", "Stable content that is long enough to produce at least one text chunk.")

	if _, err := f.ingestor.IngestAll(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	result, err := f.ingestor.IngestAll(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if result.DocumentsProcessed != 1 || result.DocumentsSkipped != 0 {
		t.Errorf("force should bypass the skip decision: %+v", result)
	}
}

func TestIngestAllRemovalSweep(t *testing.T) {
	f := newFixture(t, nil)
	keep := f.writeDoc(t, "keep.txt", "Kept document with sufficient content for the chunker to emit output.")
	gone := f.writeDoc(t, "gone.txt", "Doomed document with sufficient content for the chunker to emit output.")

	if _, err := f.ingestor.IngestAll(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	result, err := f.ingestor.IngestAll(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.DocumentsRemoved != 1 {
		t.Errorf("expected 1 removed document: %+v", result)
	}
	if _, ok := f.catalog.Get(gone); ok {
		t.Error("vanished document still cataloged")
	}
	stats := f.index.Stats()
	if stats.SourceCounts[gone] != 0 {
		t.Error("vanished document still indexed")
	}
	if stats.SourceCounts[keep] == 0 {
		t.Error("surviving document lost from index")
	}
}

func TestIngestAllBadDocumentDoesNotAbortBatch(t *testing.T) {
	f := newFixture(t, nil)
	f.writeDoc(t, "good.txt", "Healthy document with plenty of content for the chunker to work with.")
	f.writeDoc(t, "broken.docx", "not actually a zip archive")

	result, err := f.ingestor.IngestAll(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.DocumentsProcessed != 1 {
		t.Errorf("good document should still be processed: %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 collected error, got %v", result.Errors)
	}
	if f.catalog.Len() != 1 {
		t.Errorf("failed document must not be cataloged, have %d entries", f.catalog.Len())
	}
}

func TestIngestAllEmptyRoot(t *testing.T) {
	f := newFixture(t, nil)
	// Point at a directory that does not exist.
	f.ingestor.root = filepath.Join(f.root, "missing")

	result, err := f.ingestor.IngestAll(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.DocumentsFound != 0 || len(result.Errors) != 0 {
		t.Errorf("empty root should be a zero-count success: %+v", result)
	}
}

func TestIngestAllZeroByteDocument(t *testing.T) {
	f := newFixture(t, nil)
	f.writeDoc(t, "empty.txt", "")

	result, err := f.ingestor.IngestAll(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 0 {
		t.Errorf("empty document is not an error: %v", result.Errors)
	}
	if f.catalog.Len() != 0 {
		t.Errorf("empty document must not be cataloged, have %d entries", f.catalog.Len())
	}
	if f.index.Stats().TotalChunks != 0 {
		t.Error("empty document produced index records")
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (e failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (failingEmbedder) ModelName() string { return "failing" }

func TestIngestAllEmbeddingFailureLeavesNoPartialDocument(t *testing.T) {
	f := newFixture(t, failingEmbedder{})
	f.writeDoc(t, "a.txt", "Content that would be chunked and embedded if the backend were healthy.")

	result, err := f.ingestor.IngestAll(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 collected error, got %v", result.Errors)
	}
	if f.index.Stats().TotalChunks != 0 {
		t.Error("partial document reached the index")
	}
	if f.catalog.Len() != 0 {
		t.Error("failed document was cataloged")
	}
}

func TestIngestFileStatuses(t *testing.T) {
	f := newFixture(t, nil)
	path := f.writeDoc(t, "a.txt", "Single document content, long enough for the chunker to emit chunks.")

	res := f.ingestor.IngestFile(context.Background(), path, false)
	if res.Status != domain.StatusProcessed {
		t.Fatalf("expected processed, got %+v", res)
	}
	if res.ChunksCreated == 0 {
		t.Error("processed document reported zero chunks")
	}

	res = f.ingestor.IngestFile(context.Background(), path, false)
	if res.Status != domain.StatusSkipped {
		t.Errorf("unchanged document should be skipped, got %+v", res)
	}

	res = f.ingestor.IngestFile(context.Background(), path, true)
	if res.Status != domain.StatusProcessed {
		t.Errorf("force should reprocess, got %+v", res)
	}

	res = f.ingestor.IngestFile(context.Background(), filepath.Join(f.root, "missing.txt"), false)
	if res.Status != domain.StatusFailed {
		t.Errorf("missing document should fail, got %+v", res)
	}
}

func TestIngestAllProgressCallback(t *testing.T) {
	f := newFixture(t, nil)
	f.writeDoc(t, "a.txt", "First document content with enough words to make it past the chunker.")
	f.writeDoc(t, "b.txt", "Second document content with enough words to make it past the chunker.")

	var calls int
	var lastDone, lastTotal int
	f.ingestor.Progress = func(done, total int, path string) {
		calls++
		lastDone, lastTotal = done, total
	}

	if _, err := f.ingestor.IngestAll(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if calls != 3 { // one per document plus the final tick
		t.Errorf("expected 3 progress calls, got %d", calls)
	}
	if lastDone != 2 || lastTotal != 2 {
		t.Errorf("final progress should be 2/2, got %d/%d", lastDone, lastTotal)
	}
}
