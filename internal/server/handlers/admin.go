package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/shortshare/internal/auth"
	"github.com/iudanet/shortshare/internal/models"
	"github.com/iudanet/shortshare/internal/shares"
	"github.com/iudanet/shortshare/internal/validation"
)

// AdminHandler обрабатывает админскую панель и login/logout
type AdminHandler struct {
	logger   *slog.Logger
	service  *shares.Service
	resolver *auth.Resolver
	sessions *auth.Sessions
}

// NewAdminHandler создает новый handler для админских операций
func NewAdminHandler(
	logger *slog.Logger,
	service *shares.Service,
	resolver *auth.Resolver,
	sessions *auth.Sessions,
) *AdminHandler {
	return &AdminHandler{
		logger:   logger,
		service:  service,
		resolver: resolver,
		sessions: sessions,
	}
}

// dashboardEntry — одна строка панели
type dashboardEntry struct {
	ShortLink string        `json:"short_link,omitempty"`
	Share     *models.Share `json:"share"`
}

// DashboardResponse — ответ GET /admin
type DashboardResponse struct {
	Shares []dashboardEntry `json:"shares"`
	Total  int              `json:"total"`
}

// Dashboard обрабатывает GET /admin
// Список всех ссылок; доступ только администратору. Неадминистратор
// получает явный Unauthorized с подсказкой на /login, а не framework-403.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !auth.PrincipalFromContext(ctx).IsAdmin() {
		sendError(w, "Unauthorized, consider logging in at /login", http.StatusUnauthorized)
		return
	}

	list, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list shares", slog.Any("error", err))
		sendError(w, "internal server error", storeErrorStatus(err))
		return
	}

	resp := DashboardResponse{
		Shares: make([]dashboardEntry, 0, len(list)),
		Total:  len(list),
	}
	for i := range list {
		entry := dashboardEntry{Share: &list[i]}
		if link, err := h.service.ShortLink(&list[i]); err == nil {
			entry.ShortLink = link
		}
		resp.Shares = append(resp.Shares, entry)
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// loginForm — минимальная страница входа. Полноценный рендеринг
// шаблонов вне зоны ответственности сервиса.
const loginForm = `<!DOCTYPE html>
<html>
<body>
<form method="POST" action="/login">
<label>Username <input type="text" name="username"></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Log in</button>
</form>
</body>
</html>
`

// LoginPage обрабатывает GET /login
func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(loginForm)); err != nil {
		h.logger.Error("failed to write login page", slog.Any("error", err))
	}
}

// Login обрабатывает POST /login (application/x-www-form-urlencoded).
// Неверный пароль и несуществующий пользователь дают один и тот же
// generic-ответ.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		sendError(w, "invalid form data", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if err := validation.ValidateUsername(username); err != nil {
		// невалидный формат username неотличим от неверных данных
		sendError(w, auth.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}

	user, err := h.resolver.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.WarnContext(ctx, "failed login attempt", slog.String("username", username))
			sendError(w, auth.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "login failed", slog.Any("error", err))
		sendError(w, "internal server error", storeErrorStatus(err))
		return
	}

	cookie, err := h.sessions.Issue(user.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("username", user.Username),
		slog.Bool("is_admin", user.IsAdmin))

	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout обрабатывает POST /logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.Clear())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
