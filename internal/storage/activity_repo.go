package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// ActivityStore defines the interface for activity log operations.
// Writes are best-effort from the callers' perspective; a failed audit write
// must never fail the action it describes.
type ActivityStore interface {
	// Insert appends an activity entry and fills in its id.
	Insert(ctx context.Context, entry *ActivityRecord) error
	// ListRecentByUser lists a user's activity, newest first.
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*ActivityRecord, error)
}

// ActivityRepo provides methods for activity log operations.
// It implements the ActivityStore interface.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Insert appends an activity entry and fills in its id.
func (r *ActivityRepo) Insert(ctx context.Context, entry *ActivityRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_logs (user_id, document_id, activity_type, description) VALUES (?, ?, ?, ?)",
		entry.UserID, nullableID(entry.DocumentID), entry.ActivityType, entry.Description)
	if err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted activity id: %w", err)
	}
	entry.ID = id
	return nil
}

// ListRecentByUser lists a user's activity, newest first.
func (r *ActivityRepo) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*ActivityRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, COALESCE(document_id, 0), activity_type, description, created_at
		 FROM activity_logs WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*ActivityRecord
	for rows.Next() {
		var entry ActivityRecord
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.DocumentID,
			&entry.ActivityType, &entry.Description, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}
	return entries, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
