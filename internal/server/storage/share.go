package storage

import (
	"context"
	"fmt"

	"github.com/iudanet/shortshare/internal/models"
)

// criterionKind перечисляет поддерживаемые виды поиска
type criterionKind int

const (
	byID criterionKind = iota
	byURL
	byToken
)

// Criterion — предикат поиска одной записи share. Конструируется
// только через ByID/ByURL/ByToken, поэтому невалидного критерия не
// существует. ByID и ByToken на практике уникальны; ByURL может
// совпасть с несколькими строками, возвращается первая.
type Criterion struct {
	url   string
	token string
	id    int64
	kind  criterionKind
}

// ByID ищет по первичному ключу
func ByID(id int64) Criterion {
	return Criterion{kind: byID, id: id}
}

// ByURL ищет по destination URL (первое совпадение)
func ByURL(url string) Criterion {
	return Criterion{kind: byURL, url: url}
}

// ByToken ищет по публичному токену
func ByToken(token string) Criterion {
	return Criterion{kind: byToken, token: token}
}

// SQL возвращает параметризованное условие WHERE и его аргумент.
// Критерий никогда не подставляется в строку запроса напрямую.
func (c Criterion) SQL() (clause string, arg any) {
	switch c.kind {
	case byURL:
		return "url = ?", c.url
	case byToken:
		return "token = ?", c.token
	default:
		return "id = ?", c.id
	}
}

// String используется в логах и сообщениях об ошибках
func (c Criterion) String() string {
	switch c.kind {
	case byURL:
		return fmt.Sprintf("url=%q", c.url)
	case byToken:
		return fmt.Sprintf("token=%q", c.token)
	default:
		return fmt.Sprintf("id=%d", c.id)
	}
}

// ShareStorage defines interface for share persistence
type ShareStorage interface {
	// CreateShare inserts a new share with crt = now, expired = false
	// and no token, returning the row with its store-assigned id.
	// Returns ErrStoreUnavailable or ErrInsertFailed.
	CreateShare(ctx context.Context, url string, expiresAt int64) (*models.Share, error)

	// FindShare returns the first share matching the criterion.
	// Returns ErrShareNotFound when zero rows match.
	FindShare(ctx context.Context, criterion Criterion) (*models.Share, error)

	// UpdateShare resolves the criterion to exactly one existing row
	// and overwrites its mutable fields (exp, crt, url, expired, token)
	// atomically. Returns ErrShareNotFound if nothing matches.
	UpdateShare(ctx context.Context, criterion Criterion, share *models.Share) error

	// DeleteShare removes the share with the given id.
	// Returns ErrShareNotFound when the row no longer exists.
	DeleteShare(ctx context.Context, id int64) error

	// ListShares returns all shares ordered by id (dashboard listing)
	ListShares(ctx context.Context) ([]models.Share, error)
}
