package repository

import (
	"context"
	"sync/atomic"
	"time"

	"sharekit/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverRateLimitRepository ходит в primary, а при его отказе
// переключается на fallback и раз в минуту пробует вернуться.
type FailoverRateLimitRepository struct {
	primary   domain.RateLimitRepository
	fallback  domain.RateLimitRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverRateLimitRepository(primary, fallback domain.RateLimitRepository, logger *zerolog.Logger) *FailoverRateLimitRepository {
	return &FailoverRateLimitRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverRateLimitRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("Primary rate limit repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Пробуем восстановиться через минуту
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
