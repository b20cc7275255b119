package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"activitiesui/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Service stores JSON encoded values in Redis. Reference data from the
// activities API goes through GetOrSet.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, key string) bool
	// TTL is the remaining lifetime of key, ErrCacheMiss when it is absent
	TTL(ctx context.Context, key string) (time.Duration, error)

	GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func(ctx context.Context) (interface{}, error), dest interface{}) error

	Ping(ctx context.Context) error
}

type service struct {
	client *redis.Client
}

func NewService(client *redis.Client) Service {
	return &service{client: client}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache: decode %s: %w", key, err)
	}

	return nil
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}

	return nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	return nil
}

func (s *service) DeletePattern(ctx context.Context, pattern string) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: scan %s: %w", pattern, err)
	}

	if len(keys) == 0 {
		return nil
	}
	logger.GetDefault().Info("invalidating cache keys", "pattern", pattern, "count", len(keys))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: delete %d keys matching %s: %w", len(keys), pattern, err)
	}
	return nil
}

func (s *service) Exists(ctx context.Context, key string) bool {
	result, err := s.client.Exists(ctx, key).Result()
	return err == nil && result > 0
}

func (s *service) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache: ttl %s: %w", key, err)
	}
	// -2 means the key does not exist, -1 that it never expires
	if ttl == -2 {
		return 0, ErrCacheMiss
	}
	return ttl, nil
}

func (s *service) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func(ctx context.Context) (interface{}, error), dest interface{}) error {
	err := s.Get(ctx, key, dest)
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrCacheMiss) {
		// Redis trouble should never block a page, fall through to the API
		logger.GetDefault().Warn("cache get failed, fetching", "key", key, "error", err)
	}

	data, err := fetcher(ctx)
	if err != nil {
		return fmt.Errorf("cache: fetch %s: %w", key, err)
	}

	if setErr := s.Set(ctx, key, data, ttl); setErr != nil {
		logger.GetDefault().Warn("cache set failed", "key", key, "error", setErr)
	}

	// Round trip through JSON so dest gets the same shape as a cache hit
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cache: encode fetched %s: %w", key, err)
	}

	return json.Unmarshal(jsonData, dest)
}

func (s *service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var ErrCacheMiss = errors.New("cache miss")
