package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockRetry = 25 * time.Millisecond

// releaseScript deletes the lock only if it still carries our token, so an
// expired holder cannot free a lock someone else has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a Redis-backed mutex shared by every service instance.
// The lock expires after ttl so a crashed holder cannot block a quiz forever.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl, retry: defaultLockRetry}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.key(key)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	return func() {
		// best-effort; the TTL cleans up if this fails
		_ = releaseScript.Run(context.Background(), l.client, []string{redisKey}, token).Err()
	}, nil
}

func (l *Locker) key(key string) string {
	return "vocabquiz:lock:" + key
}
