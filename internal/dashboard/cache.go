package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

const (
	versionKeyPrefix = "dashboard:version"
	bumpChannel      = "dashboard.bump"
)

// Cache wraps Redis based caching with per-owner versioning.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

func versionKey(owner shared.Owner) string {
	return versionKeyPrefix + ":" + owner.ID()
}

// Version returns the owner's cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context, owner shared.Owner) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(owner)).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey(owner), 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey(owner)).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes the cache key with the owner's current version.
func (c *Cache) BuildKey(ctx context.Context, owner shared.Owner, parts ...string) (string, error) {
	joined := strings.Join(append([]string{"dashboard", owner.ID()}, parts...), ":")
	if !c.enabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx, owner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c.enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.enabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached entry of the owner and announces the change.
func (c *Cache) Bump(ctx context.Context, owner shared.Owner) error {
	if !c.enabled() {
		return nil
	}
	if err := c.client.Incr(ctx, versionKey(owner)).Err(); err != nil {
		return err
	}
	return c.client.Publish(ctx, bumpChannel, owner.ID()).Err()
}

// ListenForInvalidation calls onBump with the owner id of every bump
// published by any instance until ctx is done.
func (c *Cache) ListenForInvalidation(ctx context.Context, onBump func(ownerID string)) error {
	if !c.enabled() || onBump == nil {
		return nil
	}
	pubsub := c.client.Subscribe(ctx, bumpChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onBump(msg.Payload)
			}
		}
	}()
	return nil
}
