package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/shortshare/internal/models"
	"github.com/iudanet/shortshare/internal/server/storage"
)

// CreateUser creates a new user and returns it with the assigned id
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error) {
	query := `
		INSERT INTO users (username, password, is_admin)
		VALUES (?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query, username, passwordHash, isAdmin)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			return nil, storage.ErrUserAlreadyExists
		}
		return nil, classify(err, storage.ErrInsertFailed)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read assigned id: %w", storage.ErrInsertFailed, err)
	}

	return &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}, nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password, is_admin
		FROM users
		WHERE username = ?
	`

	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, password, is_admin
		FROM users
		WHERE id = ?
	`

	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// DeleteUser deletes user by ID
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return classify(err, storage.ErrQueryFailed)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %w", storage.ErrQueryFailed, err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// scanUser декодирует строку users в модель
func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", storage.ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", storage.ErrMalformedRow, err)
	}

	return user, nil
}
