package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("booking lock not acquired")

// Locker guards the booking critical section for one (doctor, day, slot)
// triple. The booking service re-checks availability inside fn, so two
// sessions racing for the same slot serialize here instead of both
// observing it as free.
type Locker interface {
	WithBookingLock(ctx context.Context, doctorID string, day time.Time, slotID string, fn func(ctx context.Context) error) error
}

type redisBookingLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBookingLocker creates a locker backed by a per-booking Redis key.
func NewRedisBookingLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisBookingLocker{
		client: client,
		ttl:    ttl,
	}
}

// BookingLockKey builds the Redis key for one bookable slot on one
// calendar day.
func BookingLockKey(doctorID string, day time.Time, slotID string) string {
	return fmt.Sprintf("lock:booking:%s:%s:%s", doctorID, day.Format("2006-01-02"), slotID)
}

func (l *redisBookingLocker) WithBookingLock(ctx context.Context, doctorID string, day time.Time, slotID string, fn func(ctx context.Context) error) error {
	key := BookingLockKey(doctorID, day, slotID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisBookingLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release booking lock: %w", err)
	}
	return nil
}

// noopLocker runs fn without any cross-process guard. Used when Redis is
// not configured; the commit-time availability re-check is then the only
// conflict guard, which is not race-safe across processes.
type noopLocker struct{}

// NewNoopLocker returns a locker that provides no mutual exclusion.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) WithBookingLock(ctx context.Context, doctorID string, day time.Time, slotID string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
