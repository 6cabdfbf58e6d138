package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"user-grid/network"

	"github.com/redis/go-redis/v9"
)

var ErrCacheNotAvailable = errors.New("cache not available")

// UserListCache keeps the serialized GET /users payload in redis.
// A nil client turns every call into a miss.
//
// Writers bump a generation counter on every change. A list read from the
// database is only stored if the generation is still the one seen before
// the read, so a slow reader cannot put back a list older than a write.
type UserListCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

func NewUserListCache(client *redis.Client, prefix string, ttl time.Duration) *UserListCache {
	return &UserListCache{client: client, key: prefix + "users:all", genKey: prefix + "users:gen", ttl: ttl}
}

func (c *UserListCache) Enabled() bool { return c != nil && c.client != nil }

// Get returns the cached list, or ok=false on a miss.
func (c *UserListCache) Get(ctx context.Context) ([]network.User, bool, error) {
	if !c.Enabled() {
		return nil, false, ErrCacheNotAvailable
	}
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var users []network.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return users, true, nil
}

// Generation returns the current write generation; 0 when never bumped.
func (c *UserListCache) Generation(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, ErrCacheNotAvailable
	}
	gen, err := c.client.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return gen, nil
}

// Set stores users if the generation is still gen. stored is false when a
// write happened in between and the list was dropped.
func (c *UserListCache) Set(ctx context.Context, gen int64, users []network.User) (stored bool, err error) {
	if !c.Enabled() {
		return false, ErrCacheNotAvailable
	}
	data, err := json.Marshal(users)
	if err != nil {
		return false, fmt.Errorf("cache encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, c.genKey).Int64()
		if errors.Is(err, redis.Nil) {
			cur, err = 0, nil
		}
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, data, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, c.genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return stored, nil
}

// Invalidate bumps the generation and drops the stored list.
func (c *UserListCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return ErrCacheNotAvailable
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}

// Connect dials redis and pings it; an empty addr returns a nil client.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
