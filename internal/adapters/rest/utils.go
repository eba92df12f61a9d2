package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// statusFromError переводит ошибку доменного уровня в HTTP-статус
func statusFromError(err error) int {
	switch {
	case domain.IsIdentityMissing(err):
		return http.StatusConflict
	case domain.IsUpstreamError(err):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrCollectionRunning):
		return http.StatusLocked
	case errors.Is(err, domain.ErrNoActiveCollection):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
