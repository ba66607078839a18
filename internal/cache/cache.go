// Package cache stores generated recommendation sets in Redis so repeated
// profile views do not trigger a fresh model call. Persistence of outputs is
// the caller's responsibility; this is that caller-side path.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Candra0x6/stara-match/internal/recommend"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "stara:recommendations:"
	defaultTTL = 30 * time.Minute
)

// Config holds the Redis connection settings.
type Config struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// Entry is the cached recommendation set together with its generation time.
type Entry struct {
	Output      *recommend.Output `json:"output"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Cache wraps the Redis client.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a recommendation cache from the given config.
func New(cfg Config) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &Cache{client: client, ttl: ttl}
}

// Ping tests the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Put stores the output for a profile, stamped with the current time.
func (c *Cache) Put(ctx context.Context, profileID string, output *recommend.Output) error {
	entry := Entry{Output: output, GeneratedAt: time.Now().UTC()}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+profileID, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Get returns the cached entry for a profile, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, profileID string) (*Entry, error) {
	payload, err := c.client.Get(ctx, keyPrefix+profileID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Invalidate drops the cached entry for a profile.
func (c *Cache) Invalidate(ctx context.Context, profileID string) error {
	return c.client.Del(ctx, keyPrefix+profileID).Err()
}
