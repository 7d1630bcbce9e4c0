// Package redis caches the read-mostly catalogs (achievements and shop items)
// in Redis.
//
// The catalogs change only through migrations, so entries simply expire after
// a TTL. Every cache failure degrades to a read from the wrapped store; Redis
// being down never fails a request.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss is returned when the key is not in the cache.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheConnection is returned when Redis cannot be reached at startup.
	ErrCacheConnection = errors.New("cache: connection failed")

	// ErrCacheSerialization is returned when a value cannot be encoded or decoded.
	ErrCacheSerialization = errors.New("cache: serialization failed")

	// ErrCacheKeyEmpty is returned for an empty key.
	ErrCacheKeyEmpty = errors.New("cache: key cannot be empty")
)

// KeyPrefix namespaces every key written by this package.
const KeyPrefix = "studyhall:"

// DefaultTTL is used when Config.TTL is zero.
const DefaultTTL = 10 * time.Minute

// Config holds Redis connection settings.
type Config struct {
	Addr        string
	Password    string
	DB          int
	TTL         time.Duration
	DialTimeout time.Duration
}

// Backend is the byte-level key/value surface the cache needs. RedisBackend
// implements it over go-redis.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisBackend is a Backend over a go-redis client.
type RedisBackend struct {
	client *goredis.Client
}

var _ Backend = (*RedisBackend)(nil)

// Connect opens a client and pings the server.
func Connect(ctx context.Context, cfg Config) (*RedisBackend, error) {
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = 5 * time.Second
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dial,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}
	return &RedisBackend{client: client}, nil
}

// Get implements Backend.Get.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

// Set implements Backend.Set.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

// Del implements Backend.Del.
func (b *RedisBackend) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return b.client.Del(ctx, keys...).Err()
}

// Close closes the client.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// Cache stores JSON values in a Backend.
type Cache struct {
	backend Backend
	ttl     time.Duration
}

// NewCache creates a cache. A zero ttl means DefaultTTL.
func NewCache(backend Backend, ttl time.Duration) *Cache {
	if backend == nil {
		panic("cache backend cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{backend: backend, ttl: ttl}
}

// Set stores value under key as JSON.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return c.backend.Set(ctx, KeyPrefix+key, data, c.ttl)
}

// Get decodes the value under key into dest. It returns ErrCacheMiss when the
// key is absent.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	data, err := c.backend.Get(ctx, KeyPrefix+key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return nil
}

// Delete removes keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = KeyPrefix + k
	}
	return c.backend.Del(ctx, prefixed...)
}
