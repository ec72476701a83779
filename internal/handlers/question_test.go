package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docuvault/internal/contextutil"
	"docuvault/internal/rag"
	"docuvault/internal/service"
	"docuvault/internal/storage"
)

type fakeEngine struct {
	result *rag.Result
	err    error

	gotUserID     int64
	gotDocumentID int64
	gotQuestion   string
}

func (f *fakeEngine) Ask(ctx context.Context, userID, documentID int64, question string) (*rag.Result, error) {
	f.gotUserID = userID
	f.gotDocumentID = documentID
	f.gotQuestion = question
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func questionRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/question", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(contextutil.WithUserID(req.Context(), 1))
}

func TestQuestionHandler(t *testing.T) {
	engine := &fakeEngine{
		result: &rag.Result{
			Question:      "what is this?",
			Answer:        "an answer",
			DocumentID:    4,
			DocumentTitle: "notes",
			Sources:       []rag.Source{{ChunkIndex: 0, Similarity: 0.9, ChunkText: "chunk"}},
		},
	}
	handler := NewQuestionHandler(engine)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, questionRequest(t, `{"question":"what is this?","document_id":4}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var result rag.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Answer != "an answer" || len(result.Sources) != 1 {
		t.Errorf("response = %+v", result)
	}
	if engine.gotUserID != 1 || engine.gotDocumentID != 4 {
		t.Errorf("engine called with user %d doc %d", engine.gotUserID, engine.gotDocumentID)
	}
}

func TestQuestionHandlerValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing question", `{"document_id":4}`, "question"},
		{"missing document id", `{"question":"hello"}`, "document_id"},
		{"malformed body", `{"question":`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewQuestionHandler(&fakeEngine{})

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, questionRequest(t, tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if tt.wantField != "" && !strings.Contains(rec.Body.String(), "field "+tt.wantField) {
				t.Errorf("body = %q, want field %q named", rec.Body.String(), tt.wantField)
			}
		})
	}
}

func TestQuestionHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"generation failed", service.ErrGenerationFailed, http.StatusBadGateway},
		{"embedding failed", service.ErrEmbeddingFailed, http.StatusBadGateway},
		{"store unavailable", service.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewQuestionHandler(&fakeEngine{err: tt.err})

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, questionRequest(t, `{"question":"q","document_id":1}`))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestQuestionHandlerUnauthenticated(t *testing.T) {
	handler := NewQuestionHandler(&fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/question", strings.NewReader(`{"question":"q","document_id":1}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
