package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const usageKeyPrefix = "usage:"

// redisStore implements Store on redis INCR. The increment-and-return is a
// single round trip, so concurrent instances never race on the count.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func redisKey(scope string, day time.Time) string {
	return usageKeyPrefix + scope + ":" + DayKey(day).Format("2006-01-02")
}

func (s *redisStore) Increment(ctx context.Context, scope string, day time.Time) (int64, error) {
	key := redisKey(scope, day)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr usage counter: %w", err)
	}
	if count == 1 {
		// First touch sets the expiry; counters are calendar-bound and
		// never need to outlive their window
		_ = s.client.Expire(ctx, key, s.ttl).Err()
	}
	return count, nil
}

func (s *redisStore) Get(ctx context.Context, scope string, day time.Time) (int64, error) {
	count, err := s.client.Get(ctx, redisKey(scope, day)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get usage counter: %w", err)
	}
	return count, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
