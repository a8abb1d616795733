// Пакет shares — бизнес-логика сокращённых ссылок: создание записи,
// генерация и сохранение токена одним логическим шагом, разрешение
// токена в destination URL с ленивой проверкой срока жизни.
package shares

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/iudanet/shortshare/internal/models"
	"github.com/iudanet/shortshare/internal/server/storage"
	"github.com/iudanet/shortshare/internal/token"
)

const (
	// DefaultStoreTimeout ограничивает каждую операцию с хранилищем
	DefaultStoreTimeout = 5 * time.Second

	// maxTokenAttempts — потолок повторных генераций при коллизии
	// токена. Коллизия возможна только на padded-токенах (случайный
	// хвост), детерминированная часть инъективна по id.
	maxTokenAttempts = 5
)

// Ошибки уровня сервиса
var (
	// ErrBadToken — токен синтаксически не разрешается в id
	ErrBadToken = errors.New("token cannot be decoded")

	// ErrTokenMissing — у записи запрошена короткая ссылка до того,
	// как токен был сгенерирован
	ErrTokenMissing = errors.New("share has no token yet")

	// ErrTokenCollision — не удалось подобрать уникальный токен за
	// отведённое число попыток
	ErrTokenCollision = errors.New("token collision attempts exhausted")
)

// Service реализует операции над сокращёнными ссылками поверх
// ShareStorage и token.Generator
type Service struct {
	store        storage.ShareStorage
	generator    *token.Generator
	logger       *slog.Logger
	baseURL      string
	storeTimeout time.Duration
}

// NewService создаёт сервис. baseURL — внешний адрес сервиса,
// используется при построении короткой ссылки
// (например "http://127.0.0.1:8080").
func NewService(
	store storage.ShareStorage,
	generator *token.Generator,
	baseURL string,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *Service {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &Service{
		store:        store,
		generator:    generator,
		logger:       logger,
		baseURL:      baseURL,
		storeTimeout: storeTimeout,
	}
}

// Shorten создаёт запись, генерирует для неё токен и сохраняет его.
// Это единый логический шаг: сгенерированный, но не сохранённый токен —
// это ошибка всей операции, а не "почти успех". Токен зависит от id,
// поэтому вставка всегда happens-before сохранения токена.
func (s *Service) Shorten(ctx context.Context, destURL string, expiresAt int64) (*models.Share, error) {
	if expiresAt == 0 {
		expiresAt = models.NeverExpires
	}

	opCtx, cancel := s.opContext(ctx)
	share, err := s.store.CreateShare(opCtx, destURL, expiresAt)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("create share: %w", err)
	}

	tok, err := s.uniqueToken(ctx, share.ID)
	if err != nil {
		return nil, err
	}

	share.Token = tok
	opCtx, cancel = s.opContext(ctx)
	err = s.store.UpdateShare(opCtx, storage.ByID(share.ID), share)
	cancel()
	if err != nil {
		// запись осталась без токена; наружу уходит ошибка, а не
		// частичный результат
		return nil, fmt.Errorf("persist token for share %d: %w", share.ID, err)
	}

	s.logger.InfoContext(ctx, "share created",
		slog.Int64("id", share.ID),
		slog.String("token", share.Token))

	return share, nil
}

// uniqueToken генерирует токен для id и проверяет его уникальность по
// хранилищу, повторяя генерацию при коллизии. Хранилище не навязывает
// уникальность токена на уровне схемы, поэтому проверка живёт здесь.
func (s *Service) uniqueToken(ctx context.Context, id int64) (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		tok, err := s.generator.Generate(id)
		if err != nil {
			return "", fmt.Errorf("generate token for share %d: %w", id, err)
		}

		opCtx, cancel := s.opContext(ctx)
		_, err = s.store.FindShare(opCtx, storage.ByToken(tok))
		cancel()
		if errors.Is(err, storage.ErrShareNotFound) {
			return tok, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe token uniqueness: %w", err)
		}

		s.logger.WarnContext(ctx, "token collision, regenerating",
			slog.Int64("id", id),
			slog.Int("attempt", attempt+1))
	}

	return "", fmt.Errorf("share %d: %w", id, ErrTokenCollision)
}

// Resolve разрешает публичный токен в запись. Часть токена после
// разделителя — случайный padding, в поиске участвует только
// декодированный id. Просроченные и деактивированные записи для
// редиректа неотличимы от несуществующих.
func (s *Service) Resolve(ctx context.Context, tok string) (*models.Share, error) {
	id, err := s.generator.IDFromToken(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadToken, err)
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()
	share, err := s.store.FindShare(opCtx, storage.ByID(id))
	if err != nil {
		return nil, err
	}

	if !share.IsActive(time.Now()) {
		s.logger.DebugContext(ctx, "share expired", slog.Int64("id", share.ID))
		return nil, storage.ErrShareNotFound
	}

	return share, nil
}

// Delete удаляет запись по её публичному токену.
// Гонка с параллельным удалением отдаётся как ErrShareNotFound.
func (s *Service) Delete(ctx context.Context, tok string) error {
	id, err := s.generator.IDFromToken(tok)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadToken, err)
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()
	if err := s.store.DeleteShare(opCtx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "share deleted", slog.Int64("id", id))
	return nil
}

// List возвращает все записи (данные для админской панели)
func (s *Service) List(ctx context.Context) ([]models.Share, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.ListShares(opCtx)
}

// ShortLink строит полную короткую ссылку для записи
func (s *Service) ShortLink(share *models.Share) (string, error) {
	if !share.HasToken() {
		return "", ErrTokenMissing
	}
	link, err := url.JoinPath(s.baseURL, "r", share.Token)
	if err != nil {
		return "", fmt.Errorf("join short link: %w", err)
	}
	return link, nil
}

// opContext навешивает ограниченный таймаут на одну операцию
// с хранилищем
func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}
