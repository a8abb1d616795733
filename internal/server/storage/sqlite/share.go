package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/shortshare/internal/models"
	"github.com/iudanet/shortshare/internal/server/storage"
)

// classify переводит ошибки драйвера в таксономию storage.
// Истёкший контекст (bounded timeout операции) — это недоступность
// хранилища, а не ошибка запроса.
func classify(err error, kind error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", storage.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// scanShare декодирует строку shares в модель. Ограничениям схемы на
// этом уровне не доверяем: любая ошибка скана — ErrMalformedRow.
func scanShare(row interface{ Scan(...any) error }) (*models.Share, error) {
	var (
		share models.Share
		token sql.NullString
	)

	err := row.Scan(
		&share.ID,
		&share.ExpiresAt,
		&share.CreatedAt,
		&share.URL,
		&share.Expired,
		&token,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrShareNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", storage.ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", storage.ErrMalformedRow, err)
	}

	if token.Valid {
		share.Token = token.String
	}

	return &share, nil
}

// tokenValue конвертирует пустой токен модели в NULL колонки
func tokenValue(token string) sql.NullString {
	return sql.NullString{String: token, Valid: token != ""}
}

// CreateShare inserts a new share and returns it with the assigned id
func (s *Storage) CreateShare(ctx context.Context, url string, expiresAt int64) (*models.Share, error) {
	query := `
		INSERT INTO shares (exp, crt, url, expired, token)
		VALUES (?, ?, ?, false, NULL)
	`

	now := time.Now().Unix()
	res, err := s.db.ExecContext(ctx, query, expiresAt, now, url)
	if err != nil {
		return nil, classify(err, storage.ErrInsertFailed)
	}

	// пул ограничен одним соединением, LastInsertId относится именно
	// к этой вставке
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read assigned id: %w", storage.ErrInsertFailed, err)
	}

	return &models.Share{
		ID:        id,
		URL:       url,
		CreatedAt: now,
		ExpiresAt: expiresAt,
		Expired:   false,
		Token:     "",
	}, nil
}

// FindShare returns the first share matching the criterion
func (s *Storage) FindShare(ctx context.Context, criterion storage.Criterion) (*models.Share, error) {
	clause, arg := criterion.SQL()
	query := fmt.Sprintf(`
		SELECT id, exp, crt, url, expired, token
		FROM shares
		WHERE %s
		ORDER BY id
		LIMIT 1
	`, clause)

	return scanShare(s.db.QueryRowContext(ctx, query, arg))
}

// UpdateShare resolves the criterion to a single row and overwrites its
// mutable fields. The whole operation runs in one transaction so a
// reader never observes a half-written row.
func (s *Storage) UpdateShare(ctx context.Context, criterion storage.Criterion, share *models.Share) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err, storage.ErrQueryFailed)
	}
	defer tx.Rollback() //nolint:errcheck // no-op после Commit

	clause, arg := criterion.SQL()
	var id int64
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id FROM shares WHERE %s ORDER BY id LIMIT 1`, clause),
		arg,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrShareNotFound
		}
		return classify(err, storage.ErrQueryFailed)
	}

	// UPDATE ограничен разрешённым id — затронуть больше одной строки
	// невозможно
	_, err = tx.ExecContext(ctx, `
		UPDATE shares
		SET exp = ?, crt = ?, url = ?, expired = ?, token = ?
		WHERE id = ?
	`,
		share.ExpiresAt,
		share.CreatedAt,
		share.URL,
		share.Expired,
		tokenValue(share.Token),
		id,
	)
	if err != nil {
		return classify(err, storage.ErrQueryFailed)
	}

	if err := tx.Commit(); err != nil {
		return classify(err, storage.ErrQueryFailed)
	}

	return nil
}

// DeleteShare removes the share with the given id
func (s *Storage) DeleteShare(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shares WHERE id = ?`, id)
	if err != nil {
		return classify(err, storage.ErrQueryFailed)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %w", storage.ErrQueryFailed, err)
	}

	if rows == 0 {
		return storage.ErrShareNotFound
	}

	return nil
}

// ListShares returns all shares ordered by id
func (s *Storage) ListShares(ctx context.Context) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exp, crt, url, expired, token
		FROM shares
		ORDER BY id
	`)
	if err != nil {
		return nil, classify(err, storage.ErrQueryFailed)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *share)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, storage.ErrQueryFailed)
	}

	return shares, nil
}
