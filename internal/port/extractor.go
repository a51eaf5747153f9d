package port

import "docrag/internal/domain"

// Extractor turns a document file into an ordered list of text segments.
type Extractor interface {
	// Extract reads the file at path and returns its segments. Fails with
	// domain.ErrUnsupportedFormat, domain.ErrDocumentNotFound, or a
	// *domain.ExtractionError.
	Extract(path string) ([]domain.Segment, error)
}
