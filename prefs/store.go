// Package prefs persists per-client contact details used to prefill the
// inquiry form. Persistence is best-effort by contract: callers log and
// ignore failures.
package prefs

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Contact is the remembered prefill data.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Store is the injected persistence capability behind the prefill feature,
// swappable in tests.
type Store interface {
	Get(ctx context.Context, client string) (Contact, bool, error)
	Set(ctx context.Context, client string, contact Contact) error
}

// RedisStore keeps contacts in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "prefs:contact:",
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, client string) (Contact, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+client).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Contact{}, false, nil
		}
		return Contact{}, false, err
	}
	var c Contact
	if err := json.Unmarshal(data, &c); err != nil {
		return Contact{}, false, err
	}
	return c, true, nil
}

func (s *RedisStore) Set(ctx context.Context, client string, contact Contact) error {
	data, err := json.Marshal(contact)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+client, data, s.ttl).Err()
}

// MemoryStore is a map-backed Store for tests and redis-less deployments.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Contact
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Contact{}}
}

func (s *MemoryStore) Get(_ context.Context, client string) (Contact, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.data[client]
	return c, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, client string, contact Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[client] = contact
	return nil
}
