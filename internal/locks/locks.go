package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"codeberg.org/finboard/server/internal/logger"
)

// connects to Redis and returns a locker whose locks expire after ttl
func NewRedisLocker(redisURL string, ttl time.Duration) (*RedisLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	return NewWithClient(client, ttl), nil
}

// wraps an existing client
func NewWithClient(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		script: redis.NewScript(releaseScript),
	}
}

// closes the Redis connection
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// tries to take the lock for key. acquired is false when another holder has it.
// the returned release is safe to call after the lock has expired.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), bool, error) {
	lockKey := fmt.Sprintf(keyOnboardingLock, key)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", lockKey, err)
	}

	if !ok {
		return nil, false, nil
	}

	release := func() {
		// the request context may already be cancelled by the time we release
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := l.script.Run(releaseCtx, l.client, []string{lockKey}, token).Err(); err != nil {
			logger.Warn("failed to release onboarding lock", "key", lockKey, "error", err)
		}
	}

	return release, true, nil
}
