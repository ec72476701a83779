package handlers

import (
	"net/http"
	"strings"

	"docuvault/internal/storage"
)

// maxSuggestions caps the suggestion list length.
const maxSuggestions = 10

// SuggestHandler serves keyword-prefix search suggestions drawn from the
// caller's processed documents.
type SuggestHandler struct {
	documents storage.DocumentStore
}

// NewSuggestHandler creates a new SuggestHandler.
func NewSuggestHandler(documents storage.DocumentStore) *SuggestHandler {
	return &SuggestHandler{documents: documents}
}

// SuggestionsResponse lists matching keywords.
//
// swagger:model SuggestionsResponse
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// ServeHTTP handles suggestion requests.
//
// swagger:route GET /api/v1/search/suggestions search searchSuggestions
func (h *SuggestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	prefix := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if prefix == "" {
		writeError(w, http.StatusBadRequest, "A query prefix is required")
		return
	}

	docs, err := h.documents.ListProcessedWithKeywords(ctx, userID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load suggestions")
		return
	}

	seen := make(map[string]struct{})
	suggestions := make([]string, 0, maxSuggestions)
	for _, doc := range docs {
		for _, keyword := range storage.DecodeKeywords(doc.Keywords) {
			keyword = strings.ToLower(keyword)
			if !strings.HasPrefix(keyword, prefix) {
				continue
			}
			if _, dup := seen[keyword]; dup {
				continue
			}
			seen[keyword] = struct{}{}
			suggestions = append(suggestions, keyword)
			if len(suggestions) == maxSuggestions {
				writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
				return
			}
		}
	}

	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}
