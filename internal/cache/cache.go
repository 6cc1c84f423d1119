package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeepTTL preserves the remaining lifetime of a key when overwriting it. A Set with KeepTTL only
// overwrites: a missing or expired key is left missing.
const KeepTTL = redis.KeepTTL

// KV is the small key-value surface sessions and rate limiting are built on.
// Get returns nil, nil for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key, member string, ttl time.Duration) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SRem(ctx context.Context, key, member string) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Client wraps redis.Client. Unlike a read-through cache, session state lives here, so
// connectivity errors are returned to the caller.
type Client struct {
	client *redis.Client
}

var _ KV = (*Client)(nil)

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	return c.client.Close()
}

// Get returns value or nil if missing.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return res, nil
}

// Set stores value with TTL. Pass KeepTTL to overwrite an existing key and keep its expiry.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == KeepTTL {
		err := c.client.SetArgs(ctx, key, value, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis set %s: %w", key, err)
		}
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// SAdd adds member to the set at key and extends the set's lifetime to ttl.
func (c *Client) SAdd(ctx context.Context, key, member string, ttl time.Duration) error {
	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, key, member)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis sadd %s: %w", key, err)
	}
	return nil
}

// SMembers lists the set at key.
func (c *Client) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers %s: %w", key, err)
	}
	return members, nil
}

// SRem removes member from the set at key.
func (c *Client) SRem(ctx context.Context, key, member string) error {
	if err := c.client.SRem(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("redis srem %s: %w", key, err)
	}
	return nil
}

// Incr counts hits on key inside a fixed window starting at the first hit.
func (c *Client) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return incr.Val(), nil
}
