package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/shortshare/internal/models"
	"github.com/iudanet/shortshare/internal/server/storage"
)

// PrincipalKind перечисляет исходы разрешения принципала
type PrincipalKind int

const (
	// Anonymous — cookie отсутствует, невалиден или пользователь не найден
	Anonymous PrincipalKind = iota
	// AuthenticatedUser — валидная сессия обычного пользователя
	AuthenticatedUser
	// AdminUser — валидная сессия пользователя с is_admin = true
	AdminUser
)

// Principal — результат разрешения учётных данных запроса.
// Отсутствие сессии — это не ошибка, а Anonymous: маршруты сами
// решают, что делать с неавторизованным запросом.
type Principal struct {
	User *models.User
	Kind PrincipalKind
}

// IsAdmin сообщает, можно ли пускать принципала к привилегированным
// операциям
func (p Principal) IsAdmin() bool {
	return p.Kind == AdminUser
}

// Authenticated сообщает, стоит ли за принципалом реальный пользователь
func (p Principal) Authenticated() bool {
	return p.Kind != Anonymous
}

// Resolver превращает сессионный cookie запроса в Principal.
// Двухступенчатая схема: сначала identity из cookie, затем чтение
// пользователя из БД (включая is_admin) на каждый запрос.
type Resolver struct {
	sessions *Sessions
	users    storage.UserStorage
	logger   *slog.Logger
}

// NewResolver создаёт Resolver
func NewResolver(sessions *Sessions, users storage.UserStorage, logger *slog.Logger) *Resolver {
	return &Resolver{
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// Resolve извлекает principal из запроса. Любой дефект сессии
// (нет cookie, битая подпись, пользователь удалён) даёт Anonymous.
// Ошибка возвращается только при недоступности хранилища — её нельзя
// маскировать под "не авторизован".
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (Principal, error) {
	cookie, err := req.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return Principal{Kind: Anonymous}, nil
	}

	username, err := r.sessions.Validate(cookie.Value)
	if err != nil {
		r.logger.DebugContext(ctx, "invalid session cookie", slog.Any("error", err))
		return Principal{Kind: Anonymous}, nil
	}

	user, err := r.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			r.logger.DebugContext(ctx, "session user no longer exists", slog.String("username", username))
			return Principal{Kind: Anonymous}, nil
		}
		return Principal{Kind: Anonymous}, err
	}

	kind := AuthenticatedUser
	if user.IsAdmin {
		kind = AdminUser
	}

	return Principal{Kind: kind, User: user}, nil
}

// Login проверяет пару username/password и при успехе возвращает
// пользователя. Несуществующий пользователь и неверный пароль
// неразличимы для вызывающего: оба дают ErrInvalidCredentials.
func (r *Resolver) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrPasswordMismatch) || errors.Is(err, ErrMalformedHash) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// ErrInvalidCredentials — единый generic-ответ на неверный username
// или пароль, чтобы не раскрывать, что именно не совпало
var ErrInvalidCredentials = errors.New("invalid username or password")

// contextKey — тип для ключей контекста, избегаем коллизий
type contextKey string

const principalKey contextKey = "principal"

// ContextWithPrincipal кладёт принципала в контекст запроса
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext достаёт принципала из контекста.
// До auth-middleware в контексте принципала нет — это Anonymous.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey).(Principal); ok {
		return p
	}
	return Principal{Kind: Anonymous}
}
