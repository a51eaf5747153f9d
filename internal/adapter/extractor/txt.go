package extractor

import (
	"os"
	"strconv"
	"strings"

	"docrag/internal/domain"
)

// extractTXT returns the whole file as a single segment. Blank files yield
// zero segments, which is not an error.
func extractTXT(path string) ([]domain.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	return []domain.Segment{{
		Text: text,
		Metadata: map[string]string{
			"file_type":       "txt",
			"character_count": strconv.Itoa(len(text)),
		},
	}}, nil
}
