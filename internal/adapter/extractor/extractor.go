// Package extractor turns PDF, DOCX, PPTX, and plain-text files into
// ordered text segments for chunking and indexing.
package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docrag/internal/domain"
)

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".pptx": true,
	".txt":  true,
}

// Supported reports whether the extension (with leading dot, any case) is a
// format this package can read.
func Supported(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// DocumentExtractor dispatches on file extension to a format-specific reader.
type DocumentExtractor struct{}

func New() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Extract reads the file at path and returns its text segments in document
// order. Side effects are limited to file reads.
func (e *DocumentExtractor) Extract(path string) ([]domain.Segment, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
		}
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		segments []domain.Segment
		err      error
	)

	switch ext {
	case ".pdf":
		segments, err = extractPDF(path)
	case ".docx":
		segments, err = extractDOCX(path)
	case ".pptx":
		segments, err = extractPPTX(path)
	case ".txt":
		segments, err = extractTXT(path)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}
	return segments, nil
}
