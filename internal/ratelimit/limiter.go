// Package ratelimit throttles outbound email-type side effects per
// (type, identity, ip) using a fixed-window counter: the first increment of
// a window sets the key's TTL, later increments ride it out. The counter is
// reset entirely when the window expires rather than sliding continuously.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/logger"
)

const keyPrefix = "email_rate_limit"

type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	// Degraded marks a fail-open verdict: the counter store was
	// unreachable, so the caller was allowed through without counting.
	Degraded bool
}

type Checker interface {
	Check(ctx context.Context, identity, ip string, max int, window time.Duration, limitType string) Result
	Reset(ctx context.Context, identity, ip, limitType string) error
}

// CounterStore is the atomic increment-with-expiry primitive the limiter
// needs. *redis.Client satisfies it via RedisCounterStore.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Del(ctx context.Context, key string) error
}

type Limiter struct {
	store CounterStore
}

func NewLimiter(store CounterStore) *Limiter {
	return &Limiter{store: store}
}

// Check increments the window counter and decides. It fails open: any
// counter-store error yields an allowed verdict with the full budget, marked
// Degraded, because availability of the primary flow outranks strict
// limiting.
func (l *Limiter) Check(ctx context.Context, identity, ip string, max int, window time.Duration, limitType string) Result {
	key := makeKey(identity, ip, limitType)

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return l.failOpen(key, max, window, err)
	}

	if count == 1 {
		if err := l.store.Expire(ctx, key, window); err != nil {
			return l.failOpen(key, max, window, err)
		}
	}

	ttl, err := l.store.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		ttl = window
	}

	if count > int64(max) {
		return Result{Allowed: false, Remaining: 0, ResetIn: ttl}
	}

	remaining := max - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{Allowed: true, Remaining: remaining, ResetIn: ttl}
}

func (l *Limiter) Reset(ctx context.Context, identity, ip, limitType string) error {
	return l.store.Del(ctx, makeKey(identity, ip, limitType))
}

func (l *Limiter) failOpen(key string, max int, window time.Duration, err error) Result {
	logger.Warn().Err(err).Str("key", key).Msg("rate limit check degraded, allowing by default")
	return Result{Allowed: true, Remaining: max, ResetIn: window, Degraded: true}
}

func makeKey(identity, ip, limitType string) string {
	if ip == "" {
		ip = "unknown"
	}
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, normalize(limitType), normalize(identity), normalize(ip))
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// RedisCounterStore adapts *redis.Client to CounterStore. A nil client is
// tolerated and reported as unreachable, which the limiter turns into a
// fail-open verdict.
type RedisCounterStore struct {
	client *redis.Client
}

var errNoCounterStore = errors.New("counter store unavailable")

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string) (int64, error) {
	if s.client == nil {
		return 0, errNoCounterStore
	}
	return s.client.Incr(ctx, key).Result()
}

func (s *RedisCounterStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if s.client == nil {
		return errNoCounterStore
	}
	return s.client.Expire(ctx, key, ttl).Err()
}

func (s *RedisCounterStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	if s.client == nil {
		return 0, errNoCounterStore
	}
	return s.client.TTL(ctx, key).Result()
}

func (s *RedisCounterStore) Del(ctx context.Context, key string) error {
	if s.client == nil {
		return errNoCounterStore
	}
	return s.client.Del(ctx, key).Err()
}
