package service

import (
	"fmt"

	"sharekit/internal/database"
)

// normalizePage превращает параметры from/size в offset/limit.
// from — число пропускаемых строк, не номер страницы. Значения по
// умолчанию подставляет HTTP-слой, здесь только проверка границ.
func normalizePage(from, size int) (offset, limit int, err error) {
	if from < 0 {
		return 0, 0, fmt.Errorf("%w: from=%d", database.ErrInvalidPagination, from)
	}
	if size <= 0 {
		return 0, 0, fmt.Errorf("%w: size=%d", database.ErrInvalidPagination, size)
	}
	return from, size, nil
}
