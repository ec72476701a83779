package handlers

import (
	"net/http"
	"time"

	"docuvault/internal/storage"
)

// ActivityHandler serves the recent-activity read model.
type ActivityHandler struct {
	activities storage.ActivityStore
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activities storage.ActivityStore) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// ActivityResponse is one activity entry.
type ActivityResponse struct {
	ID           int64     `json:"id"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description"`
	DocumentID   int64     `json:"document_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ServeHTTP handles recent activity requests.
//
// swagger:route GET /api/v1/activity/recent activity recentActivity
func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}

	entries, err := h.activities.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load activity")
		return
	}

	responses := make([]ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ActivityResponse{
			ID:           entry.ID,
			ActivityType: entry.ActivityType,
			Description:  entry.Description,
			DocumentID:   entry.DocumentID,
			CreatedAt:    entry.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}
