package handlers

import (
	"encoding/json"
	"net/http"

	"docuvault/internal/rag"
	"docuvault/internal/service"
)

// QuestionHandler answers natural-language questions against a document.
type QuestionHandler struct {
	engine rag.Engine
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(engine rag.Engine) *QuestionHandler {
	return &QuestionHandler{engine: engine}
}

// QuestionRequest is the payload for asking a question.
//
// swagger:model QuestionRequest
type QuestionRequest struct {
	Question   string `json:"question"`
	DocumentID int64  `json:"document_id"`
}

// ServeHTTP handles question requests.
//
// swagger:route POST /api/v1/search/question search askQuestion
func (h *QuestionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		handleServiceError(ctx, w, &service.ValidationError{Field: "question", Message: "question is required"}, "Invalid question")
		return
	}
	if req.DocumentID <= 0 {
		handleServiceError(ctx, w, &service.ValidationError{Field: "document_id", Message: "a positive document id is required"}, "Invalid document id")
		return
	}

	result, err := h.engine.Ask(ctx, userID, req.DocumentID, req.Question)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to answer question")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
