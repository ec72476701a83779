package handlers

import (
	"net/http"

	"docuvault/internal/contextutil"
	"docuvault/internal/storage"
	"docuvault/internal/vectorstore"
)

// IndexDebugHandler reports the state of the vector index: collection point
// count plus per-document processing status for the caller. Diagnostics
// only.
type IndexDebugHandler struct {
	documents  storage.DocumentStore
	vectors    vectorstore.VectorStore
	collection string
}

// NewIndexDebugHandler creates a new IndexDebugHandler.
func NewIndexDebugHandler(documents storage.DocumentStore, vectors vectorstore.VectorStore, collection string) *IndexDebugHandler {
	return &IndexDebugHandler{
		documents:  documents,
		vectors:    vectors,
		collection: collection,
	}
}

// IndexDocumentStatus is one document's ingestion status.
type IndexDocumentStatus struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	IsProcessed bool   `json:"is_processed"`
}

// IndexDebugResponse is the index diagnostics payload.
//
// swagger:model IndexDebugResponse
type IndexDebugResponse struct {
	Collection  string                `json:"collection"`
	PointsCount int                   `json:"points_count"`
	Documents   []IndexDocumentStatus `json:"documents"`
}

// ServeHTTP handles index diagnostics requests.
//
// swagger:route GET /api/v1/search/debug/index search debugIndex
func (h *IndexDebugHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	count, err := h.vectors.Count(ctx, h.collection)
	if err != nil {
		// The index being down is exactly what this endpoint should show.
		logger.WarnContext(ctx, "failed to count index points", "error", err)
		count = -1
	}

	docs, err := h.documents.ListByUser(ctx, userID, 0, 1000)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list documents")
		return
	}

	statuses := make([]IndexDocumentStatus, 0, len(docs))
	for _, doc := range docs {
		statuses = append(statuses, IndexDocumentStatus{
			ID:          doc.ID,
			Title:       doc.Title,
			IsProcessed: doc.IsProcessed,
		})
	}

	writeJSON(w, http.StatusOK, IndexDebugResponse{
		Collection:  h.collection,
		PointsCount: count,
		Documents:   statuses,
	})
}
