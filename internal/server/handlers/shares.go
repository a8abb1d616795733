package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/iudanet/shortshare/internal/auth"
	"github.com/iudanet/shortshare/internal/shares"
	"github.com/iudanet/shortshare/internal/validation"
)

// maxCreatePayload ограничивает размер тела запроса на создание ссылки
const maxCreatePayload = 1024

// CreateShareRequest — тело POST /api/shorten
type CreateShareRequest struct {
	URL string `json:"url"`
	// Exp — epoch seconds; 0 или отсутствие поля = бессрочная ссылка
	Exp int64 `json:"exp,omitempty"`
}

// ShareHandler обрабатывает операции над сокращёнными ссылками
type ShareHandler struct {
	logger  *slog.Logger
	service *shares.Service
}

// NewShareHandler создает новый handler для ссылок
func NewShareHandler(logger *slog.Logger, service *shares.Service) *ShareHandler {
	return &ShareHandler{
		logger:  logger,
		service: service,
	}
}

// Create обрабатывает POST /api/shorten
// Привилегированная операция: создание доступно только администратору.
// Успешный ответ — plain-text полная короткая ссылка.
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !auth.PrincipalFromContext(ctx).IsAdmin() {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Проверяем content-type до чтения тела
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || ct != "application/json" {
		sendError(w, "incorrect content-type provided on request", http.StatusUnsupportedMediaType)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCreatePayload)

	var req CreateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			sendError(w, "request payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.WarnContext(ctx, "failed to decode create request", slog.Any("error", err))
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateDestinationURL(req.URL); err != nil {
		h.logger.WarnContext(ctx, "invalid destination url", slog.Any("error", err))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	share, err := h.service.Shorten(ctx, req.URL, req.Exp)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to shorten url", slog.Any("error", err))
		sendError(w, "failed to create shortened url", storeErrorStatus(err))
		return
	}

	link, err := h.service.ShortLink(share)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build short link", slog.Any("error", err))
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write([]byte(link)); err != nil {
		h.logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// Redirect обрабатывает GET /r/{token}
// Неразрешимый токен (битый, неизвестный, просроченный) даёт единый
// generic 404 без внутренних деталей.
func (h *ShareHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tok := r.PathValue("token")

	share, err := h.service.Resolve(ctx, tok)
	if err != nil {
		status := storeErrorStatus(err)
		if status == http.StatusNotFound {
			sendError(w, "not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to resolve token", slog.Any("error", err))
		sendError(w, "internal server error", status)
		return
	}

	http.Redirect(w, r, share.URL, http.StatusFound)
}

// Delete обрабатывает DELETE /r/{token}
// Привилегированная операция.
func (h *ShareHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !auth.PrincipalFromContext(ctx).IsAdmin() {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tok := r.PathValue("token")
	if err := h.service.Delete(ctx, tok); err != nil {
		status := storeErrorStatus(err)
		if status == http.StatusNotFound {
			sendError(w, "not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete share", slog.Any("error", err))
		sendError(w, "internal server error", status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
