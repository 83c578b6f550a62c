// Package redisstore stores sessions in Redis. Expiry is delegated to Redis
// key TTLs, so the store does not implement garbage collection.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "sess_"

// Store implements session.Store on top of a Redis client.
type Store struct {
	client        redis.UniversalClient
	prefix        string
	scanBatchSize int64
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithScanBatchSize sets the SCAN count hint used by Count.
func WithScanBatchSize(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.scanBatchSize = n
		}
	}
}

// New creates a store. The client is owned by the caller.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:        client,
		prefix:        DefaultPrefix,
		scanBatchSize: 1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrSessionNotFound
	}
	return b, err
}

// Write stores data with a Redis TTL. A non-positive ttl keeps the key
// until it is destroyed.
func (s *Store) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, s.key(id), data, ttl).Err()
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Count returns the number of stored sessions. It uses SCAN so it does not
// block the server, and is meant for diagnostics.
func (s *Store) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func (s *Store) key(id string) string {
	return s.prefix + id
}
