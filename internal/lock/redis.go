package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alcyxob/fitcoach/internal/logger"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "fitcoach:lock:"
	defaultRetryPeriod = 100 * time.Millisecond
)

// Deletes the key only if it still holds our token, so an expired lock
// re-acquired by someone else is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance pointed at the same Redis.
// Locks expire after ttl so a crashed holder cannot block a client forever.
type RedisLocker struct {
	log   *logger.Logger
	rdb   *goredis.Client
	ttl   time.Duration
	retry time.Duration
}

func NewRedisLocker(addr string, ttl time.Duration, log *logger.Logger) (*RedisLocker, error) {
	if addr == "" {
		return nil, errors.New("redis address required")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisLocker{
		log:   log.With("component", "RedisLocker"),
		rdb:   rdb,
		ttl:   ttl,
		retry: defaultRetryPeriod,
	}, nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %q: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %q: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's ctx may already be cancelled; release regardless.
			relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(relCtx, l.rdb, []string{redisKey}, token).Err(); err != nil {
				l.log.Warn("Failed to release lock", "key", key, "error", err)
			}
		})
	}, nil
}

func (l *RedisLocker) Close() error {
	return l.rdb.Close()
}
