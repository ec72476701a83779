package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docuvault/internal/contextutil"
	"docuvault/internal/storage"
	"docuvault/internal/vectorstore/mocks"
)

type fakeListDocs struct {
	storage.DocumentStore
	docs []*storage.DocumentRecord
}

func (f *fakeListDocs) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*storage.DocumentRecord, error) {
	return f.docs, nil
}

func TestIndexDebugHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorStore(ctrl)
	vectors.EXPECT().Count(gomock.Any(), "documents").Return(42, nil)

	docs := &fakeListDocs{docs: []*storage.DocumentRecord{
		{ID: 1, Title: "ready", IsProcessed: true},
		{ID: 2, Title: "pending", IsProcessed: false},
	}}
	handler := NewIndexDebugHandler(docs, vectors, "documents")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/debug/index", nil)
	req = req.WithContext(contextutil.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp IndexDebugResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PointsCount != 42 || resp.Collection != "documents" {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Documents) != 2 || !resp.Documents[0].IsProcessed || resp.Documents[1].IsProcessed {
		t.Errorf("documents = %+v", resp.Documents)
	}
}

func TestIndexDebugHandlerIndexDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorStore(ctrl)
	vectors.EXPECT().Count(gomock.Any(), "documents").Return(0, errors.New("unreachable"))

	handler := NewIndexDebugHandler(&fakeListDocs{}, vectors, "documents")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/debug/index", nil)
	req = req.WithContext(contextutil.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, the endpoint must still respond when the index is down", rec.Code)
	}

	var resp IndexDebugResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PointsCount != -1 {
		t.Errorf("PointsCount = %d, want -1 for an unreachable index", resp.PointsCount)
	}
}
