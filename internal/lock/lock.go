// Package lock serialises seat-changing operations. With Redis configured
// the lock is shared by every service instance; otherwise it only covers
// the current process.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"carpool/internal/cache"

	"github.com/google/uuid"
)

// SeatsKey guards every change to car_passengers made by join and auto-assign.
const SeatsKey = "carpool:lock:seats"

var ErrNotAcquired = errors.New("lock: could not acquire lock")

// Locker acquires a named lock. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Local is an in-process keyed mutex.
type Local struct {
	locks sync.Map // map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	v, _ := l.locks.LoadOrStore(key, make(chan struct{}, 1))
	ch := v.(chan struct{})
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w %q: %v", ErrNotAcquired, key, ctx.Err())
	}
}

// releaseScript deletes the key only if this holder still owns it.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// Redis is a SET NX PX lock with an owner token. The TTL bounds how long a
// crashed holder can block others.
type Redis struct {
	client  cache.Cache
	ttl     time.Duration
	retry   time.Duration
	onError func(error)
}

func NewRedis(client cache.Cache, ttl time.Duration, onError func(error)) *Redis {
	if onError == nil {
		onError = func(error) {}
	}
	return &Redis{client: client, ttl: ttl, retry: 25 * time.Millisecond, onError: onError}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis SetNX error for lock key '%s': %w", key, err)
		}
		if ok {
			return func() { r.release(key, token) }, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %q: %v", ErrNotAcquired, key, ctx.Err())
		}
	}
}

func (r *Redis) release(key, token string) {
	// the request context may already be cancelled; release regardless
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		r.onError(fmt.Errorf("release lock %q: %w", key, err))
	}
}
