package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sharekit/internal/models"

	"github.com/go-chi/chi/v5"
)

// sharerHeader несет идентификатор пользователя, от имени которого
// выполняется запрос.
const sharerHeader = "X-Sharer-User-Id"

func sharerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(sharerHeader))
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", sharerHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s header must be a positive integer", sharerHeader)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return id, nil
}

// pagination разбирает from/size; значения по умолчанию 0 и DefaultPageSize.
// Отрицательные значения пропускаются дальше, их бракует сервисный слой.
func pagination(r *http.Request) (from, size int, err error) {
	from = 0
	size = models.DefaultPageSize

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		from, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid from: %s", raw)
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid size: %s", raw)
		}
	}
	return from, size, nil
}
