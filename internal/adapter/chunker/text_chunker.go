package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"docrag/internal/domain"
)

const (
	// How far back from a candidate cut point to look for a sentence
	// terminator, and failing that, for whitespace.
	sentenceWindow   = 200
	whitespaceWindow = 100
)

// TextChunker splits text into overlapping, size-bounded chunks, snapping to
// sentence or word boundaries when one lies within reach.
type TextChunker struct {
	chunkSize int
	overlap   int
}

func NewTextChunker(chunkSize, overlap int) *TextChunker {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	return &TextChunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Split divides text into chunks. It is a pure function of its inputs and
// always terminates, including when overlap >= chunkSize. The returned bool
// is true when the iteration cap was hit and the output covers only a prefix
// of the text; callers treat that as a degradation, not a failure.
func (c *TextChunker) Split(text string) ([]string, bool) {
	if len(text) <= c.chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, false
		}
		return []string{text}, false
	}

	var chunks []string
	start := 0
	iterations := 0
	maxIterations := len(text) / 10
	if maxIterations < 1 {
		maxIterations = 1
	}

	for start < len(text) && iterations < maxIterations {
		iterations++

		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}

		// Not the final chunk: try to cut at a sentence terminator, then
		// at whitespace, searching backward within a bounded window. Both
		// boundary classes are ASCII, so those cuts never land mid-rune.
		if end < len(text) {
			if cut := lastIndexWithin(text, start, end, sentenceWindow, ".!?"); cut > start {
				end = cut + 1
			} else if cut := lastIndexWithin(text, start, end, whitespaceWindow, " \t\n"); cut > start {
				end = cut
			} else if e := runeStart(text, end); e > start {
				// No boundary in reach: cut at the size limit, backed up
				// to the start of the rune it would otherwise split.
				end = e
			} else {
				// A single rune wider than the chunk size.
				_, size := utf8.DecodeRuneInString(text[start:])
				end = start + size
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Advance with overlap, guaranteeing strictly forward progress even
		// when overlap >= chunkSize or boundary snapping moved end backward.
		// The overlap is measured in bytes, so the next start may land
		// inside a rune; back it up to the rune boundary.
		next := runeStart(text, end-c.overlap)
		if next <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			next = start + size
		}
		start = next
	}

	return chunks, start < len(text)
}

// runeStart walks i back to the nearest UTF-8 rune boundary at or before
// it. Negative positions clamp to 0.
func runeStart(text string, i int) int {
	if i < 0 {
		return 0
	}
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// lastIndexWithin finds the last occurrence of any byte in chars inside
// text[start:end], looking back at most window bytes from end. Returns -1
// when none is in reach.
func lastIndexWithin(text string, start, end, window int, chars string) int {
	searchStart := end - window
	if searchStart < start {
		searchStart = start
	}
	i := strings.LastIndexAny(text[searchStart:end], chars)
	if i < 0 {
		return -1
	}
	return searchStart + i
}

// ChunkSegments splits each segment of one document and numbers the resulting
// chunks with a single strictly increasing ordinal, yielding IDs of the form
// "{basename}_{ordinal}". Segment metadata is copied onto every chunk along
// with source and ingestion facts.
func (c *TextChunker) ChunkSegments(sourceFile string, segments []domain.Segment) []domain.Chunk {
	base := filepath.Base(sourceFile)
	processedAt := time.Now().Format(time.RFC3339)

	var chunks []domain.Chunk
	ordinal := 0

	for _, seg := range segments {
		texts, _ := c.Split(seg.Text)
		for _, text := range texts {
			meta := make(map[string]string, len(seg.Metadata)+2)
			for k, v := range seg.Metadata {
				meta[k] = v
			}
			meta["source_file"] = base
			meta["processed_at"] = processedAt

			chunks = append(chunks, domain.Chunk{
				ID:         fmt.Sprintf("%s_%d", base, ordinal),
				Text:       text,
				SourceFile: sourceFile,
				PageNumber: seg.PageNumber,
				Metadata:   meta,
			})
			ordinal++
		}
	}

	return chunks
}
