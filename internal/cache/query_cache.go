package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"invoice-rag/pkg/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "invoice-rag:query:"

// NewRedisClient creates a client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// QueryCache keeps model answers in Redis, keyed by document content hash
// and query text.
type QueryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQueryCache(client *redis.Client, ttl time.Duration) *QueryCache {
	return &QueryCache{client: client, ttl: ttl}
}

func (c *QueryCache) Get(ctx context.Context, documentHash, query string) (string, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(documentHash, query)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *QueryCache) Set(ctx context.Context, documentHash, query, response string) error {
	return c.client.Set(ctx, cacheKey(documentHash, query), response, c.ttl).Err()
}

func cacheKey(documentHash, query string) string {
	h := sha256.New()
	h.Write([]byte(documentHash))
	h.Write([]byte{0})
	h.Write([]byte(query))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
