package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/shortshare/internal/server/storage"
	"github.com/iudanet/shortshare/internal/shares"
)

// sendJSON пишет JSON-ответ с заданным статусом
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// sendError пишет plain-text сообщение об ошибке
func sendError(w http.ResponseWriter, message string, statusCode int) {
	http.Error(w, message, statusCode)
}

// storeErrorStatus переводит ошибку хранилища/сервиса в HTTP-статус.
// Ошибки, не попавшие в таксономию, считаются внутренними.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrShareNotFound),
		errors.Is(err, shares.ErrBadToken):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrInsertFailed),
		errors.Is(err, storage.ErrQueryFailed),
		errors.Is(err, storage.ErrMalformedRow),
		errors.Is(err, shares.ErrTokenCollision),
		errors.Is(err, shares.ErrTokenMissing):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
