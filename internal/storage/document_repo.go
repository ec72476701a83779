package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docuvault/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// DocumentStore defines the interface for document record operations.
type DocumentStore interface {
	// Create inserts a new document record and fills in its id.
	Create(ctx context.Context, doc *DocumentRecord) error
	// GetByID gets a document by id regardless of owner.
	// Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (*DocumentRecord, error)
	// GetByIDAndUser gets a document by id scoped to the owning user.
	// Returns nil and ErrNotFound if not found.
	GetByIDAndUser(ctx context.Context, id, userID int64) (*DocumentRecord, error)
	// ListByUser lists a user's documents ordered by creation time, newest first.
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*DocumentRecord, error)
	// MarkProcessed persists the generated fields and flips is_processed in a
	// single statement so the record never shows processed without content.
	MarkProcessed(ctx context.Context, id int64, content, summary, keywords string) error
	// ListProcessedWithKeywords lists a user's processed documents that have
	// a non-empty keyword list.
	ListProcessedWithKeywords(ctx context.Context, userID int64) ([]*DocumentRecord, error)
	// Delete removes a document record by id.
	Delete(ctx context.Context, id int64) error
}

// DocumentRepo provides methods for document record operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const documentColumns = `id, user_id, title, filename, file_path, file_size, file_type,
	COALESCE(content, ''), COALESCE(summary, ''), COALESCE(keywords, ''),
	is_processed, is_encrypted, created_at, COALESCE(updated_at, created_at)`

// Create inserts a new document record and fills in its id.
func (r *DocumentRepo) Create(ctx context.Context, doc *DocumentRecord) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (user_id, title, filename, file_path, file_size, file_type, is_processed, is_encrypted)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		doc.UserID, doc.Title, doc.Filename, doc.FilePath, doc.FileSize, doc.FileType, doc.IsEncrypted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted document id: %w", err)
	}
	doc.ID = id
	return nil
}

// GetByID gets a document by id regardless of owner.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

// GetByIDAndUser gets a document by id scoped to the owning user.
func (r *DocumentRepo) GetByIDAndUser(ctx context.Context, id, userID int64) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ? AND user_id = ?", id, userID)
	return scanDocument(row)
}

// ListByUser lists a user's documents ordered by creation time, newest first.
func (r *DocumentRepo) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*DocumentRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectDocuments(rows)
}

// MarkProcessed persists the generated fields and flips is_processed.
func (r *DocumentRepo) MarkProcessed(ctx context.Context, id int64, content, summary, keywords string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET content = ?, summary = ?, keywords = ?, is_processed = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		content, summary, keywords, id)
	if err != nil {
		return fmt.Errorf("failed to mark document processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProcessedWithKeywords lists a user's processed documents that carry keywords.
func (r *DocumentRepo) ListProcessedWithKeywords(ctx context.Context, userID int64) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+documentColumns+` FROM documents
		 WHERE user_id = ? AND is_processed = 1 AND keywords IS NOT NULL AND keywords != ''
		 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectDocuments(rows)
}

// Delete removes a document record by id.
func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := row.Scan(
		&doc.ID, &doc.UserID, &doc.Title, &doc.Filename, &doc.FilePath,
		&doc.FileSize, &doc.FileType, &doc.Content, &doc.Summary, &doc.Keywords,
		&doc.IsProcessed, &doc.IsEncrypted, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return &doc, nil
}

func collectDocuments(rows *sql.Rows) ([]*DocumentRecord, error) {
	var docs []*DocumentRecord
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}
