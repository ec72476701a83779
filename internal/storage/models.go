package storage

import "time"

// UserRecord represents a user in the database. Identity issuance itself is
// handled elsewhere; this service only reads users to scope document access.
type UserRecord struct {
	ID        int64
	Email     string
	FullName  string
	IsActive  bool
	CreatedAt time.Time
}

// DocumentRecord represents an uploaded document and its generated metadata.
// Content, Summary and Keywords stay empty until ingestion completes;
// IsProcessed reports whether the ingestion pipeline has finalized the
// record (possibly with degraded fields).
type DocumentRecord struct {
	ID          int64
	UserID      int64
	Title       string
	Filename    string
	FilePath    string // blob store location
	FileSize    int64
	FileType    string // normalized extension tag, e.g. "pdf"
	Content     string
	Summary     string
	Keywords    string // comma-joined
	IsProcessed bool
	IsEncrypted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ActivityRecord represents a single activity log entry, written best-effort
// alongside user actions and consumed only as a recent-activity read model.
type ActivityRecord struct {
	ID           int64
	UserID       int64
	DocumentID   int64
	ActivityType string
	Description  string
	CreatedAt    time.Time
}
