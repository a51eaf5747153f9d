package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"docrag/internal/domain"
)

var slideNamePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX returns one segment per slide that carries any text,
// concatenating all text runs on the slide. Slide numbers are 1-based.
func extractPPTX(path string) ([]domain.Segment, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	// Slide files appear in arbitrary archive order; sort numerically.
	slides := make(map[int]string)
	var numbers []int
	for _, file := range archive.File {
		m := slideNamePattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides[n] = file.Name
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var segments []domain.Segment
	for _, n := range numbers {
		data, err := readZipFile(&archive.Reader, slides[n])
		if err != nil {
			return nil, err
		}

		text, err := slideText(data)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}

		segments = append(segments, domain.Segment{
			Text:       text,
			PageNumber: n,
			Metadata: map[string]string{
				"file_type":    "pptx",
				"slide_count":  strconv.Itoa(len(numbers)),
				"slide_number": strconv.Itoa(n),
			},
		})
	}

	return segments, nil
}

// slideText collects the character data of every <a:t> element on a slide,
// one line per paragraph. The slide XML nests shapes arbitrarily deep, so
// this walks tokens instead of modeling the full schema.
func slideText(data []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var lines []string
	var current strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if line := strings.TrimSpace(current.String()); line != "" {
					lines = append(lines, line)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if line := strings.TrimSpace(current.String()); line != "" {
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}
