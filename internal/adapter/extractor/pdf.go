package extractor

import (
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"docrag/internal/domain"
)

// extractPDF returns one segment per page with non-blank extracted text.
func extractPDF(path string) ([]domain.Segment, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := reader.NumPage()
	var segments []domain.Segment

	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		segments = append(segments, domain.Segment{
			Text:       text,
			PageNumber: num,
			Metadata: map[string]string{
				"file_type":  "pdf",
				"page_count": strconv.Itoa(total),
			},
		})
	}

	return segments, nil
}
