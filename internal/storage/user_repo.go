package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// UserStore defines the read-model interface for user identity lookups.
type UserStore interface {
	// GetByID gets a user by id. Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (*UserRecord, error)
}

// UserRepo provides methods for user lookups.
// It implements the UserStore interface.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByID gets a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*UserRecord, error) {
	var user UserRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, full_name, is_active, created_at FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user and fills in its id. Used by fixtures and
// provisioning tooling; the API itself never creates users.
func (r *UserRepo) Create(ctx context.Context, user *UserRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, full_name, is_active) VALUES (?, ?, ?)",
		user.Email, user.FullName, user.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted user id: %w", err)
	}
	user.ID = id
	return nil
}
