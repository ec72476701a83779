package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"docuvault/internal/service"
)

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// extractWord extracts paragraph text from a Word document. DOCX files are
// ZIP archives with the document body in word/document.xml.
func extractWord(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a valid docx archive: %v", service.ErrExtractionFailed, err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", service.ErrExtractionFailed, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: %v", service.ErrExtractionFailed, err)
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", fmt.Errorf("%w: malformed document.xml: %v", service.ErrExtractionFailed, err)
		}

		var builder strings.Builder
		for _, para := range doc.Body.Paragraphs {
			for _, r := range para.Runs {
				for _, t := range r.Text {
					builder.WriteString(t.Content)
				}
			}
			builder.WriteString("\n")
		}
		return builder.String(), nil
	}

	return "", fmt.Errorf("%w: word/document.xml missing", service.ErrExtractionFailed)
}
