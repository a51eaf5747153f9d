package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat marks a file extension outside pdf/docx/pptx/txt.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrDocumentNotFound marks a document path that does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrCorruptStore marks persisted index files that are missing or
	// mismatched at load time. Recovery is an empty store, never a crash.
	ErrCorruptStore = errors.New("vector store files missing or mismatched")
)

// ExtractionError wraps a format-library failure with the file it came from.
// It is per-document and non-fatal to an ingestion batch.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EmbeddingUnavailableError means the embedding service could not be
// reached or timed out. It carries enough context for the caller to decide
// whether to abort or retry.
type EmbeddingUnavailableError struct {
	URL   string
	Model string
	Err   error
}

func (e *EmbeddingUnavailableError) Error() string {
	return fmt.Sprintf("embedding service %s (model %s) unavailable: %v", e.URL, e.Model, e.Err)
}

func (e *EmbeddingUnavailableError) Unwrap() error { return e.Err }

// DimensionMismatchError means an embedding's length differs from the
// dimension fixed at the index's first insertion. This is a configuration
// error (the embedding model changed mid-lifetime) and must fail loudly.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: index has %d, got %d", e.Want, e.Got)
}
