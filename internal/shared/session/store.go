package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"activitiesui/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// Store persists sessions between requests
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Destroy(ctx context.Context, id string) error
}

// RedisStore keeps each session as a single JSON string with a TTL
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, constants.BuildSessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decode(id, data)
}

func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := s.encode()
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, constants.BuildSessionKey(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.markSaved()
	return nil
}

func (r *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, constants.BuildSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// MemoryStore is a process local store for local development and tests
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, id)
		return nil, ErrNotFound
	}
	return decode(id, entry.data)
}

func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	data, err := s.encode()
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[s.ID] = entry
	m.mu.Unlock()

	s.markSaved()
	return nil
}

func (m *MemoryStore) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}
