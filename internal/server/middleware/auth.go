package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/shortshare/internal/auth"
	"github.com/iudanet/shortshare/internal/server/storage"
)

// SessionAuth создает middleware, разрешающее сессионный cookie в
// Principal и кладущее его в контекст запроса. Middleware никогда не
// отклоняет запрос за отсутствие сессии — решение "пускать или нет"
// принимают handlers привилегированных операций. Единственный отказ
// здесь — недоступность хранилища пользователей.
func SessionAuth(logger *slog.Logger, resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := resolver.Resolve(ctx, r)
			if err != nil {
				if errors.Is(err, storage.ErrStoreUnavailable) {
					logger.ErrorContext(ctx, "user store unavailable during auth", slog.Any("error", err))
					http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
					return
				}
				logger.ErrorContext(ctx, "failed to resolve principal", slog.Any("error", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if principal.Authenticated() {
				logger.DebugContext(ctx, "request authenticated",
					slog.String("username", principal.User.Username),
					slog.Bool("is_admin", principal.IsAdmin()))
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithPrincipal(ctx, principal)))
		})
	}
}
