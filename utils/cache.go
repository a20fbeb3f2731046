package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the backend for the whole-page cache. Entries expire purely by
// time; there is no explicit invalidation.
type Store interface {
	GetBytes(key string) ([]byte, bool)
	SetBytes(key string, b []byte, ttl time.Duration)
}

// RedisStore caches pages in Redis using the shared client.
type RedisStore struct {
	Client *redis.Client
}

// NewRedisStore returns a Store over the singleton Redis client.
func NewRedisStore() *RedisStore {
	return &RedisStore{Client: GetRedis()}
}

func (s *RedisStore) GetBytes(key string) ([]byte, bool) {
	if s.Client == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := s.Client.Get(ctx, key).Bytes()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

func (s *RedisStore) SetBytes(key string, b []byte, ttl time.Duration) {
	if s.Client == nil || ttl <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Client.Set(ctx, key, b, ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryStore is a bounded in-process fallback keeping a single entry per key.
// It serves deployments without Redis and the test suite.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	maxKeys int
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore holding at most maxKeys entries.
func NewMemoryStore(maxKeys int) *MemoryStore {
	if maxKeys < 1 {
		maxKeys = 64
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		maxKeys: maxKeys,
		now:     time.Now,
	}
}

func (s *MemoryStore) GetBytes(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return entry.body, true
}

func (s *MemoryStore) SetBytes(key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok && len(s.entries) >= s.maxKeys {
		s.evictExpiredLocked()
		if len(s.entries) >= s.maxKeys {
			return
		}
	}
	s.entries[key] = memoryEntry{body: b, expiresAt: s.now().Add(ttl)}
}

func (s *MemoryStore) evictExpiredLocked() {
	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}
