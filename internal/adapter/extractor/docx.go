package extractor

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"docrag/internal/domain"
)

// wordDocumentXML models the text-bearing parts of word/document.xml.
type wordDocumentXML struct {
	Body struct {
		Paragraphs []wordParagraph `xml:"p"`
	} `xml:"body"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text []wordText `xml:"t"`
}

type wordText struct {
	Content string `xml:",chardata"`
}

// extractDOCX concatenates all non-blank paragraphs, blank-line separated,
// into a single segment. DOCX has no native pagination.
func extractDOCX(path string) ([]domain.Segment, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	data, err := readZipFile(&archive.Reader, "word/document.xml")
	if err != nil {
		return nil, err
	}

	var doc wordDocumentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var paragraphs []string
	for _, para := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, run := range para.Runs {
			for _, text := range run.Text {
				sb.WriteString(text.Content)
			}
		}
		if p := strings.TrimSpace(sb.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	full := strings.Join(paragraphs, "\n\n")
	if full == "" {
		return nil, nil
	}

	return []domain.Segment{{
		Text: full,
		Metadata: map[string]string{
			"file_type":       "docx",
			"paragraph_count": strconv.Itoa(len(paragraphs)),
		},
	}}, nil
}

// readZipFile returns the contents of the named file inside the archive.
func readZipFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, errors.New(name + " not found in archive")
}
