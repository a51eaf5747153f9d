// Package usecase wires the adapters into the ingestion and retrieval
// flows.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docrag/internal/adapter/catalog"
	"docrag/internal/adapter/chunker"
	"docrag/internal/adapter/fs"
	"docrag/internal/domain"
	"docrag/internal/port"
)

// ProgressFunc reports ingestion progress to the caller. done counts
// documents handled so far (processed, skipped, or failed) out of total.
type ProgressFunc func(done, total int, path string)

// Ingestor drives the scan → decide → extract → chunk → embed → index →
// catalog flow.
type Ingestor struct {
	root      string
	walker    *fs.Walker
	extractor port.Extractor
	chunker   *chunker.TextChunker
	embedder  port.Embedder
	index     port.VectorIndex
	catalog   port.Catalog

	// Progress, if set, is called once per discovered document.
	Progress ProgressFunc
}

func NewIngestor(
	root string,
	walker *fs.Walker,
	extractor port.Extractor,
	textChunker *chunker.TextChunker,
	embedder port.Embedder,
	index port.VectorIndex,
	cat port.Catalog,
) *Ingestor {
	return &Ingestor{
		root:      root,
		walker:    walker,
		extractor: extractor,
		chunker:   textChunker,
		embedder:  embedder,
		index:     index,
		catalog:   cat,
	}
}

// IngestAll scans the document root and brings the index and catalog up to
// date. Unchanged documents are skipped unless force is set. Per-document
// failures are collected into the result; they never abort the batch.
// Documents that vanished from disk are swept out of both index and catalog.
func (u *Ingestor) IngestAll(ctx context.Context, force bool) (*domain.IngestResult, error) {
	result := &domain.IngestResult{}

	files, err := u.walker.Walk(u.root)
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	result.DocumentsFound = len(files)

	seen := make(map[string]bool, len(files))
	for i, file := range files {
		if u.Progress != nil {
			u.Progress(i, len(files), file.Path)
		}
		seen[file.Path] = true

		if err := ctx.Err(); err != nil {
			return result, err
		}

		entry, found := u.catalog.Get(file.Path)
		if !force && catalog.Decide(found, entry.LastProcessedTimestamp, file.ModTime) == catalog.DecisionSkip {
			result.DocumentsSkipped++
			continue
		}

		chunksCreated, err := u.ingestDocument(ctx, file.Path, file.Size, found)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Path, err))
			continue
		}
		result.DocumentsProcessed++
		result.ChunksCreated += chunksCreated

		// Persist after each document so a crash loses at most one.
		if err := u.catalog.Save(); err != nil {
			return result, fmt.Errorf("save catalog: %w", err)
		}
	}
	if u.Progress != nil {
		u.Progress(len(files), len(files), "")
	}

	// Sweep documents that no longer exist on disk.
	for _, path := range u.catalog.Paths() {
		if seen[path] {
			continue
		}
		if _, err := u.index.RemoveBySource(path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: remove vanished document: %v", path, err))
			continue
		}
		u.catalog.Delete(path)
		result.DocumentsRemoved++
	}

	if err := u.catalog.Save(); err != nil {
		return result, fmt.Errorf("save catalog: %w", err)
	}
	return result, nil
}

// IngestFile processes a single document. Expected no-op conditions come
// back as statuses rather than errors so callers can report them cleanly.
func (u *Ingestor) IngestFile(ctx context.Context, path string, force bool) *domain.DocumentResult {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &domain.DocumentResult{Status: domain.StatusFailed, FilePath: path, Message: err.Error()}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return &domain.DocumentResult{
			Status:   domain.StatusFailed,
			FilePath: abs,
			Message:  fmt.Sprintf("cannot stat document: %v", err),
		}
	}

	entry, found := u.catalog.Get(abs)
	if !force && catalog.Decide(found, entry.LastProcessedTimestamp, info.ModTime().Unix()) == catalog.DecisionSkip {
		return &domain.DocumentResult{
			Status:   domain.StatusSkipped,
			FilePath: abs,
			Message:  "document unchanged since last ingestion",
		}
	}

	chunksCreated, err := u.ingestDocument(ctx, abs, info.Size(), found)
	if err != nil {
		return &domain.DocumentResult{Status: domain.StatusFailed, FilePath: abs, Message: err.Error()}
	}
	if err := u.catalog.Save(); err != nil {
		return &domain.DocumentResult{Status: domain.StatusFailed, FilePath: abs, Message: err.Error()}
	}

	return &domain.DocumentResult{
		Status:        domain.StatusProcessed,
		FilePath:      abs,
		Message:       fmt.Sprintf("indexed %d chunks", chunksCreated),
		ChunksCreated: chunksCreated,
	}
}

// ingestDocument runs extract → chunk → embed → index → catalog for one
/// document. Embedding is all-or-nothing: a failure leaves neither a partial
// document in the index nor a catalog entry. cataloged indicates a previous
// ingestion whose records must be removed before re-adding.
func (u *Ingestor) ingestDocument(ctx context.Context, path string, size int64, cataloged bool) (int, error) {
	segments, err := u.extractor.Extract(path)
	if err != nil {
		return 0, err
	}

	chunks := u.chunker.ChunkSegments(path, segments)
	if len(chunks) == 0 {
		// Nothing to index. Drop any stale previous version.
		if cataloged {
			if _, err := u.index.RemoveBySource(path); err != nil {
				return 0, err
			}
			u.catalog.Delete(path)
		}
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := u.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(embeddings) != len(chunks) {
		return 0, errors.New("embedding service returned wrong vector count")
	}

	if cataloged {
		if _, err := u.index.RemoveBySource(path); err != nil {
			return 0, fmt.Errorf("remove previous version: %w", err)
		}
	}

	records := make([]port.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = port.VectorRecord{Chunk: c, Embedding: embeddings[i]}
	}
	if err := u.index.Add(records); err != nil {
		return 0, fmt.Errorf("index document: %w", err)
	}

	u.catalog.Put(path, newCatalogEntry(path, size, chunks))
	return len(chunks), nil
}

func newCatalogEntry(path string, size int64, chunks []domain.Chunk) domain.CatalogEntry {
	now := time.Now()
	entry := domain.CatalogEntry{
		Filename:               filepath.Base(path),
		FileSize:               size,
		FileExtension:          strings.ToLower(filepath.Ext(path)),
		ChunkCount:             len(chunks),
		LastProcessed:          now.UTC().Format(time.RFC3339),
		LastProcessedTimestamp: now.Unix(),
		Metadata:               map[string]string{},
	}
	if ft, ok := chunks[0].Metadata["file_type"]; ok {
		entry.Metadata["file_type"] = ft
	}
	return entry
}
