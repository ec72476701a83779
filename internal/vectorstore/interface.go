package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docuvault/internal/vectorstore VectorStore

import (
	"context"
	"fmt"
)

// Point is one embedded chunk ready for indexing. ID is the logical chunk
// id in the form "doc_{documentID}_chunk_{index}".
type Point struct {
	ID      string
	Vec     []float32
	Payload map[string]any
}

// SearchResult is one similarity hit. Distance is 1 - cosine similarity,
// so results sort ascending.
type SearchResult struct {
	ID       string
	Text     string
	Distance float32
	Meta     map[string]any
}

// VectorStore defines the interface for vector index operations.
type VectorStore interface {
	// EnsureCollection creates the collection if missing and validates the
	// vector size when it already exists.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Query performs a similarity search, optionally restricted to the
	// given document ids. Results are ordered by ascending distance.
	Query(ctx context.Context, collection string, query []float32, k int, documentIDs []int64) ([]SearchResult, error)

	// DeleteByDocument removes every point indexed for the document.
	DeleteByDocument(ctx context.Context, collection string, documentID int64) error

	// Count returns the number of points in the collection.
	Count(ctx context.Context, collection string) (int, error)

	// DeleteCollection drops the collection entirely.
	DeleteCollection(ctx context.Context, collection string) error
}

// ChunkPointID builds the logical id for a chunk of a document.
func ChunkPointID(documentID int64, chunkIndex int) string {
	return fmt.Sprintf("doc_%d_chunk_%d", documentID, chunkIndex)
}
