package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"sharekit/internal/database"
	"sharekit/internal/models"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// httpStatusFor транслирует сигнальные ошибки хранилища и сервисов
// в коды ответа. Отказ в доступе отдается как 404, чтобы не раскрывать
// существование чужих ресурсов.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrItemNotFound),
		errors.Is(err, database.ErrBookingNotFound),
		errors.Is(err, database.ErrRequestNotFound),
		errors.Is(err, database.ErrAccessDenied),
		errors.Is(err, database.ErrOwnItemBooking),
		errors.Is(err, database.ErrNotOwner):
		return http.StatusNotFound
	case errors.Is(err, database.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, database.ErrItemUnavailable),
		errors.Is(err, database.ErrInvalidTimeRange),
		errors.Is(err, database.ErrInvalidPagination),
		errors.Is(err, database.ErrAlreadyDecided),
		errors.Is(err, database.ErrCommentNotAllowed),
		errors.Is(err, models.ErrUnknownState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	status := httpStatusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("internal error")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
