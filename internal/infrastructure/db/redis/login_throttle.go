package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// failureCounter is the subset of *redis.Client the throttle uses.
type failureCounter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginThrottle counts failed logins per email.
// Key format: login:fail:<email>
// Each failure pushes the expiry out by window, so an email stays locked
// until window has passed without another failed attempt. INCR and EXPIRE
// run in one MULTI/EXEC so a counter never exists without its TTL.
type LoginThrottle struct {
	client      failureCounter
	maxAttempts int64
	window      time.Duration
}

func NewLoginThrottle(client *redis.Client, maxAttempts int64, window time.Duration) *LoginThrottle {
	return newLoginThrottle(client, maxAttempts, window)
}

func newLoginThrottle(client failureCounter, maxAttempts int64, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Locked reports whether email has reached the failure limit.
func (t *LoginThrottle) Locked(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle get: %w", err)
	}
	return n >= t.maxAttempts, nil
}

func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, t.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login throttle record: %w", err)
	}
	return nil
}

func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(email string) string {
	return "login:fail:" + email
}
