// Package extract converts uploaded files into plain text for the ingestion
// pipeline. The file-type tag is resolved to a closed Kind at the API
// boundary so unknown types are rejected before any processing starts.
package extract

import (
	"context"
	"fmt"
	"strings"

	"docuvault/internal/contextutil"
	"docuvault/internal/service"
)

// Kind identifies a supported extractor.
type Kind int

const (
	KindPDF Kind = iota + 1
	KindWord
	KindText
	KindMarkdown
)

// String returns the canonical tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindWord:
		return "docx"
	case KindText:
		return "txt"
	case KindMarkdown:
		return "md"
	default:
		return "unknown"
	}
}

// KindForType resolves a file-type tag to an extractor kind. The tag is
// matched case-insensitively with any leading dot stripped. Unknown tags
// return ErrUnsupportedFileType.
func KindForType(fileType string) (Kind, error) {
	tag := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(fileType)), ".")
	switch tag {
	case "pdf":
		return KindPDF, nil
	case "docx", "doc":
		return KindWord, nil
	case "txt":
		return KindText, nil
	case "md":
		return KindMarkdown, nil
	default:
		return 0, fmt.Errorf("%w: %q", service.ErrUnsupportedFileType, fileType)
	}
}

// Extractor converts raw file bytes into plain text.
type Extractor struct{}

// New creates a new Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract dispatches on kind and returns the extracted plain text.
// Parse and decode failures wrap ErrExtractionFailed (or
// ErrUnsupportedEncoding for undecodable text files); the pipeline aborts
// the run on any of them.
func (e *Extractor) Extract(ctx context.Context, data []byte, kind Kind) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var (
		text string
		err  error
	)
	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindWord:
		text, err = extractWord(data)
	case KindText:
		text, err = extractText(data)
	case KindMarkdown:
		text, err = extractMarkdown(data)
	default:
		return "", fmt.Errorf("%w: kind %d", service.ErrUnsupportedFileType, kind)
	}
	if err != nil {
		logger.ErrorContext(ctx, "text extraction failed", "kind", kind.String(), "error", err)
		return "", err
	}

	logger.DebugContext(ctx, "text extracted", "kind", kind.String(), "chars", len(text))
	return text, nil
}
