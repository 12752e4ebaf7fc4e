package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimitRepository(t *testing.T) {
	repo := NewMemoryRateLimitRepository()
	ctx := context.Background()

	userID := int64(456)
	allowed, _ := repo.CheckRateLimit(ctx, userID, 2, time.Second)
	assert.True(t, allowed)
	allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
	assert.True(t, allowed)
	allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
	assert.False(t, allowed)

	// Окно истекло, счетчик должен сброситься
	time.Sleep(time.Second + 10*time.Millisecond)
	allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
	assert.True(t, allowed)
}

func TestMemoryRateLimitIsolatedUsers(t *testing.T) {
	repo := NewMemoryRateLimitRepository()
	ctx := context.Background()

	allowed, _ := repo.CheckRateLimit(ctx, 1, 1, time.Minute)
	assert.True(t, allowed)
	allowed, _ = repo.CheckRateLimit(ctx, 1, 1, time.Minute)
	assert.False(t, allowed)

	// Лимит другого пользователя не затронут
	allowed, _ = repo.CheckRateLimit(ctx, 2, 1, time.Minute)
	assert.True(t, allowed)
}
