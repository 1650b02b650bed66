package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
)

// LoginAttemptRepository tracks failed sign-in attempts per email in Redis.
// The counter expires after the configured window, so a locked-out account
// unlocks itself.
type LoginAttemptRepository struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginAttemptRepository creates a repository allowing limit failures
// per window.
func NewLoginAttemptRepository(client *redis.Client, limit int64, window time.Duration) *LoginAttemptRepository {
	return &LoginAttemptRepository{
		client: client,
		limit:  limit,
		window: window,
	}
}

func attemptKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}

// TooMany reports whether the email has exhausted its failure budget.
func (r *LoginAttemptRepository) TooMany(ctx context.Context, email string) (bool, error) {
	key := attemptKey(email)

	count, err := r.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Log.Errorw("failed to read login attempts", "key", key, "error", err)
		return false, err
	}

	return count >= r.limit, nil
}

// RecordFailure increments the failure counter, starting the expiry window
// on the first failure.
func (r *LoginAttemptRepository) RecordFailure(ctx context.Context, email string) error {
	key := attemptKey(email)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Log.Errorw("failed to record login attempt", "key", key, "error", err)
		return err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			logger.Log.Errorw("failed to set login attempt expiry", "key", key, "error", err)
			return err
		}
	}

	return nil
}

// Reset clears the failure counter after a successful sign-in.
func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) error {
	err := r.client.Del(ctx, attemptKey(email)).Err()
	if err != nil {
		logger.Log.Errorw("failed to reset login attempts", "email", email, "error", err)
	}
	return err
}
