// Package lock keeps two seeder processes from seeding the same database at
// the same time.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("seed run already in progress")

// Release gives the lock back. It is safe to call after the lock expired.
type Release func(ctx context.Context) error

// Locker acquires the run lock.
type Locker interface {
	Acquire(ctx context.Context) (Release, error)
}

// Noop always succeeds. Used when no Redis is configured.
type Noop struct{}

func (Noop) Acquire(context.Context) (Release, error) {
	return func(context.Context) error { return nil }, nil
}

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a single-instance SET NX lock with a TTL.
type Redis struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedis builds a lock stored at "<namespace>:seed:lock".
func NewRedis(client redis.Cmdable, namespace string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: Key(namespace), ttl: ttl}
}

// Key returns the Redis key used for namespace.
func Key(namespace string) string {
	if namespace == "" {
		return "seed:lock"
	}
	return namespace + ":seed:lock"
}

func (l *Redis) Acquire(ctx context.Context) (Release, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release %s: %w", l.key, err)
		}
		return nil
	}, nil
}
