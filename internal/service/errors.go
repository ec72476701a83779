package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the ingestion and retrieval core. Callers
// classify failures with errors.Is; each stage wraps the underlying cause
// so the original error stays inspectable.
var (
	// ErrUnsupportedFileType is returned for file-type tags with no extractor.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrUnsupportedEncoding is returned when a text file cannot be decoded
	// with any of the supported encodings.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	// ErrExtractionFailed is returned when an extractor fails to parse a file.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrEmbeddingFailed is returned when the embedding model returns an empty
	// or malformed result for a non-empty input.
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrStoreUnavailable is returned when the vector index cannot be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")
	// ErrGenerationFailed is returned when a generative model call fails.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrInvalidArgument is returned on caller contract violations.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
