package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed logins per subject inside a fixed window.
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		client:      client,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func throttleKey(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return "folio:login:fail:" + hex.EncodeToString(sum[:16])
}

// Allowed reports whether subject may attempt another login.
func (t *LoginThrottle) Allowed(ctx context.Context, subject string) (bool, error) {
	if t.maxAttempts <= 0 {
		return true, nil
	}
	count, err := t.client.Get(ctx, throttleKey(subject)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read login failures: %w", err)
	}
	return count < t.maxAttempts, nil
}

func (t *LoginThrottle) Fail(ctx context.Context, subject string) error {
	key := throttleKey(subject)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count login failure: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("expire login failures: %w", err)
		}
	}
	return nil
}

func (t *LoginThrottle) Reset(ctx context.Context, subject string) error {
	if err := t.client.Del(ctx, throttleKey(subject)).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}
