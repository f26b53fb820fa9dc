// File: internal/infra/redis/lock.go
package redis

import (
	"context"
	"time"

	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/usecase"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var _ usecase.RunLocker = (*RedisLocker)(nil)

// RedisLocker is a single-holder TTL lease: SetNX to acquire, token-checked
// Lua scripts to refresh and release so only the holder can touch the key.
type RedisLocker struct {
	cli *redis.Client
}

func NewLocker(c *Client) *RedisLocker {
	return &RedisLocker{cli: c.cli}
}

// TryLock makes a single acquisition attempt. Callers treat ErrLockHeld as
// "someone else is draining" and skip silently.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.cli.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrLockHeld
	}
	return token, nil
}

var luaRefresh = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
	return 0
end`)

// Refresh extends the lease iff we still hold it.
func (l *RedisLocker) Refresh(ctx context.Context, key, token string, ttl time.Duration) error {
	res, err := luaRefresh.Run(ctx, l.cli, []string{key}, token, ttl.Milliseconds()).Result()
	if err != nil {
		return err
	}
	if n, ok := res.(int64); !ok || n == 0 {
		return domain.ErrLockHeld
	}
	return nil
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	_, err := luaUnlock.Run(ctx, l.cli, []string{key}, token).Result()
	return err
}
