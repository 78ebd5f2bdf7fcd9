package usage

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// StoreType selects the backing driver for usage counters.
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypeRedis    StoreType = "redis"
	StoreTypePostgres StoreType = "postgres"
)

type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
	pool        *pgxpool.Pool
}

// StoreOption configures NewStore.
type StoreOption func(*storeConfig)

// WithRedisClient supplies the client required by the redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) { c.redisClient = client }
}

// WithRedisTTL overrides how long redis counter keys live.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) { c.redisTTL = ttl }
}

// WithPool supplies the connection pool required by the postgres driver.
func WithPool(pool *pgxpool.Pool) StoreOption {
	return func(c *storeConfig) { c.pool = pool }
}

// NewStore creates a usage Store for the given driver type.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return &memoryStore{counts: make(map[string]int64)}, nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 40 * 24 * time.Hour
		}
		return &redisStore{client: config.redisClient, ttl: ttl}, nil

	case StoreTypePostgres:
		if config.pool == nil {
			return nil, ErrInvalidConfig
		}
		return &postgresStore{pool: config.pool}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}

// memoryStore keeps counters in a mutex-guarded map. Single-instance only;
// used by tests and local runs.
type memoryStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func memoryKey(scope string, day time.Time) string {
	return scope + ":" + DayKey(day).Format("2006-01-02")
}

func (s *memoryStore) Increment(_ context.Context, scope string, day time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memoryKey(scope, day)
	s.counts[key]++
	return s.counts[key], nil
}

func (s *memoryStore) Get(_ context.Context, scope string, day time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[memoryKey(scope, day)], nil
}

func (s *memoryStore) Close() error {
	// Nothing external to release; counters stay usable so a late in-flight
	// consume cannot hit a torn-down map
	return nil
}
