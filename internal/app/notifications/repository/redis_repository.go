package repository

import (
	"context"
	"fmt"
	"time"

	rds "github.com/marcelotrevisani/roboto/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
)

type RedisRepository struct {
	*rds.Redis
	Keys
}

func NewRedisRepository(redis *rds.Redis) *RedisRepository {
	return &RedisRepository{Redis: redis}
}

// ClaimThread records the thread state as processed. It reports false when
// another sweep already claimed it.
func (r *RedisRepository) ClaimThread(ctx context.Context, threadId string, updatedAt time.Time) (bool, error) {
	key := r.GetThreadKey(threadId, updatedAt)

	claimed, err := r.Client.SetNX(ctx, key, updatedAt.Format(time.RFC3339), ThreadRetention).Result()
	if err != nil {
		return false, fmt.Errorf("error claiming thread '%s': %w", threadId, err)
	}

	return claimed, nil
}

// ReleaseThread drops a claim so a later sweep can pick the thread state up
// again. Releasing a thread that was never claimed is a no-op.
func (r *RedisRepository) ReleaseThread(ctx context.Context, threadId string, updatedAt time.Time) error {
	err := r.Client.Del(ctx, r.GetThreadKey(threadId, updatedAt)).Err()
	if err != nil {
		return fmt.Errorf("error releasing thread '%s': %w", threadId, err)
	}
	return nil
}

func (r *RedisRepository) CountProcessed(ctx context.Context) (int64, error) {
	var count int64
	var cursor uint64

	for {
		keys, next, err := r.Client.Scan(ctx, cursor, r.GetThreadPatternKey(), 100).Result()
		if err != nil {
			return 0, fmt.Errorf("error scanning processed threads: %w", err)
		}

		count += int64(len(keys))
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return count, nil
}

func (r *RedisRepository) SetLastRead(ctx context.Context, t time.Time) error {
	err := r.Client.Set(ctx, r.GetLastReadKey(), t.Format(time.RFC3339Nano), 0).Err()
	if err != nil {
		return fmt.Errorf("error storing last-read timestamp: %w", err)
	}
	return nil
}

func (r *RedisRepository) GetLastRead(ctx context.Context) (time.Time, bool, error) {
	val, err := r.Client.Get(ctx, r.GetLastReadKey()).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	} else if err != nil {
		return time.Time{}, false, fmt.Errorf("error fetching last-read timestamp: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("error parsing last-read timestamp '%s': %w", val, err)
	}

	return t, true, nil
}

func (r *RedisRepository) HealthCheck(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
