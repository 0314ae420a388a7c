package rdx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// ErrMiss is returned by the Get helpers when the key is absent.
var ErrMiss = errors.New("cache miss")

// Connect opens the Redis client and checks it answers.
func Connect(ctx context.Context, addr, password string) error {
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := Conn.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return nil
}

func Close() error {
	if Conn == nil {
		return nil
	}
	return Conn.Close()
}

// Cache is a byte cache keyed by string. The Redis implementation is used in
// production; tests swap in a map.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisCache adapts a redis client to Cache.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(c *redis.Client) *RedisCache {
	return &RedisCache{Client: c}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

// SchemaKey is the cache key of a recipe's JSON-LD document.
func SchemaKey(recipeID int64) string {
	return fmt.Sprintf("schema:%d", recipeID)
}

// HTMLKey is the cache key of a recipe's composed HTML fragment.
func HTMLKey(recipeID int64) string {
	return fmt.Sprintf("html:%d", recipeID)
}

// Invalidate drops every cached rendering of a recipe.
func Invalidate(ctx context.Context, c Cache, recipeID int64) error {
	if c == nil {
		return nil
	}
	return c.Del(ctx, SchemaKey(recipeID), HTMLKey(recipeID))
}

// Flusher is implemented by caches that can drop every rendering at once.
type Flusher interface {
	FlushRenderings(ctx context.Context) error
}

// FlushRenderings deletes all schema:* and html:* keys.
func (c *RedisCache) FlushRenderings(ctx context.Context) error {
	for _, pattern := range []string{"schema:*", "html:*"} {
		iter := c.Client.Scan(ctx, 0, pattern, 100).Iterator()
		var batch []string
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == 100 {
				if err := c.Client.Del(ctx, batch...).Err(); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(batch) > 0 {
			if err := c.Client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
