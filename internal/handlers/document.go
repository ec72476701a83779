package handlers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"docuvault/internal/blob"
	"docuvault/internal/contextutil"
	"docuvault/internal/extract"
	"docuvault/internal/ingest"
	"docuvault/internal/storage"
	"docuvault/internal/vectorstore"
)

// DocumentHandler handles document upload, lifecycle, and listing.
type DocumentHandler struct {
	documents         storage.DocumentStore
	activities        storage.ActivityStore
	blobs             *blob.Store
	vectors           vectorstore.VectorStore
	pipeline          *ingest.Pipeline
	collection        string
	maxFileSize       int64
	allowedExtensions []string
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(
	documents storage.DocumentStore,
	activities storage.ActivityStore,
	blobs *blob.Store,
	vectors vectorstore.VectorStore,
	pipeline *ingest.Pipeline,
	collection string,
	maxFileSize int64,
	allowedExtensions []string,
) *DocumentHandler {
	return &DocumentHandler{
		documents:         documents,
		activities:        activities,
		blobs:             blobs,
		vectors:           vectors,
		pipeline:          pipeline,
		collection:        collection,
		maxFileSize:       maxFileSize,
		allowedExtensions: allowedExtensions,
	}
}

// DocumentResponse is the JSON shape of a document record.
//
// swagger:model DocumentResponse
type DocumentResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	FileSize    int64     `json:"file_size"`
	FileType    string    `json:"file_type"`
	Summary     string    `json:"summary,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	IsProcessed bool      `json:"is_processed"`
	IsEncrypted bool      `json:"is_encrypted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Content     string    `json:"content,omitempty"`
}

func documentResponse(doc *storage.DocumentRecord, withContent bool) DocumentResponse {
	resp := DocumentResponse{
		ID:          doc.ID,
		Title:       doc.Title,
		Filename:    doc.Filename,
		FileSize:    doc.FileSize,
		FileType:    doc.FileType,
		Summary:     doc.Summary,
		Keywords:    storage.DecodeKeywords(doc.Keywords),
		IsProcessed: doc.IsProcessed,
		IsEncrypted: doc.IsEncrypted,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if withContent {
		resp.Content = doc.Content
	}
	return resp
}

// Upload accepts a multipart file, stores the blob, creates the document
// record, and schedules background ingestion. The response does not wait
// for processing.
//
// swagger:route POST /api/v1/documents/upload documents uploadDocument
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1024)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File exceeds the maximum allowed size")
			return
		}
		writeError(w, http.StatusBadRequest, "A file upload is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(h.allowedExtensions, ext) {
		writeError(w, http.StatusBadRequest, "File type not allowed: "+ext)
		return
	}
	fileType := strings.TrimPrefix(ext, ".")
	if _, err := extract.KindForType(fileType); err != nil {
		handleServiceError(ctx, w, err, "Unsupported file type")
		return
	}

	if header.Size > h.maxFileSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File exceeds the maximum allowed size")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	location, err := h.blobs.Save(file, header.Filename)
	if err != nil {
		logger.ErrorContext(ctx, "failed to store uploaded file", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	doc := &storage.DocumentRecord{
		UserID:      userID,
		Title:       title,
		Filename:    header.Filename,
		FilePath:    location,
		FileSize:    header.Size,
		FileType:    fileType,
		IsEncrypted: h.blobs.Encrypted(),
	}
	if err := h.documents.Create(ctx, doc); err != nil {
		logger.ErrorContext(ctx, "failed to create document record", "error", err)
		if _, derr := h.blobs.Delete(location); derr != nil {
			logger.WarnContext(ctx, "failed to clean up orphaned blob", "location", location, "error", derr)
		}
		writeError(w, http.StatusInternalServerError, "Failed to create document")
		return
	}

	h.logActivity(ctx, userID, doc.ID, "document_upload", "uploaded "+header.Filename)
	h.scheduleIngestion(ctx, doc)

	logger.InfoContext(ctx, "document uploaded", "document_id", doc.ID, "file_type", fileType, "size", header.Size)
	writeJSON(w, http.StatusCreated, documentResponse(doc, false))
}

// Reprocess re-runs the ingestion pipeline for an existing document using
// the already-stored file.
//
// swagger:route POST /api/v1/documents/{id}/reprocess documents reprocessDocument
func (h *DocumentHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document id")
		return
	}

	doc, ok := h.fetchOwned(ctx, w, id, userID)
	if !ok {
		return
	}

	if !h.blobs.Exists(doc.FilePath) {
		writeError(w, http.StatusNotFound, "Stored file is missing")
		return
	}

	h.logActivity(ctx, userID, doc.ID, "document_reprocess", "reprocessing "+doc.Filename)
	h.scheduleIngestion(ctx, doc)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"message":     "Document processing scheduled",
		"document_id": doc.ID,
	})
}

// List returns the caller's documents, newest first.
//
// swagger:route GET /api/v1/documents documents listDocuments
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)

	docs, err := h.documents.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list documents")
		return
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, documentResponse(doc, false))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Get returns one document with its extracted content.
//
// swagger:route GET /api/v1/documents/{id} documents getDocument
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document id")
		return
	}

	doc, ok := h.fetchOwned(ctx, w, id, userID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, documentResponse(doc, true))
}

// Delete removes a document along with its blob and indexed vectors. Blob
// and vector cleanup are best effort; the record itself must go.
//
// swagger:route DELETE /api/v1/documents/{id} documents deleteDocument
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document id")
		return
	}

	doc, ok := h.fetchOwned(ctx, w, id, userID)
	if !ok {
		return
	}

	if err := h.vectors.DeleteByDocument(ctx, h.collection, doc.ID); err != nil {
		logger.WarnContext(ctx, "failed to delete document vectors", "document_id", doc.ID, "error", err)
	}
	if _, err := h.blobs.Delete(doc.FilePath); err != nil {
		logger.WarnContext(ctx, "failed to delete stored file", "document_id", doc.ID, "error", err)
	}

	if err := h.documents.Delete(ctx, doc.ID); err != nil {
		handleServiceError(ctx, w, err, "Failed to delete document")
		return
	}

	h.logActivity(ctx, userID, 0, "document_delete", "deleted "+doc.Filename)

	logger.InfoContext(ctx, "document deleted", "document_id", doc.ID)
	w.WriteHeader(http.StatusNoContent)
}

// fetchOwned loads a document and enforces ownership: absent documents are
// 404, foreign documents are 403.
func (h *DocumentHandler) fetchOwned(ctx context.Context, w http.ResponseWriter, id, userID int64) (*storage.DocumentRecord, bool) {
	doc, err := h.documents.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Document not found")
		return nil, false
	}
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load document")
		return nil, false
	}
	if doc.UserID != userID {
		writeError(w, http.StatusForbidden, "You do not have access to this document")
		return nil, false
	}
	return doc, true
}

// scheduleIngestion runs the pipeline in the background with a context
// detached from the request lifecycle, keeping the request logger.
func (h *DocumentHandler) scheduleIngestion(ctx context.Context, doc *storage.DocumentRecord) {
	logger := contextutil.LoggerFromContext(ctx)
	bgCtx := contextutil.WithLogger(context.Background(), logger)

	go func() {
		if err := h.pipeline.Process(bgCtx, doc); err != nil {
			logger.ErrorContext(bgCtx, "document ingestion failed", "document_id", doc.ID, "error", err)
		}
	}()
}

func (h *DocumentHandler) logActivity(ctx context.Context, userID, documentID int64, activityType, description string) {
	logger := contextutil.LoggerFromContext(ctx)

	entry := &storage.ActivityRecord{
		UserID:       userID,
		DocumentID:   documentID,
		ActivityType: activityType,
		Description:  description,
	}
	if err := h.activities.Insert(ctx, entry); err != nil {
		logger.WarnContext(ctx, "failed to record activity", "activity_type", activityType, "error", err)
	}
}
