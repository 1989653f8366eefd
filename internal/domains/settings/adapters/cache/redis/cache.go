package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/catering-api/internal/domains/settings/domain"
	"github.com/Apurer/catering-api/internal/domains/settings/ports"
)

var _ ports.Cache = (*Cache)(nil)

// Key is where the cached settings live.
const Key = "catering:settings:" + domain.SingletonID

// Cache stores settings as JSON in Redis with a TTL.
type Cache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewCache(client goredis.UniversalClient, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context) (*domain.Settings, bool, error) {
	raw, err := c.client.Get(ctx, Key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return &settings, true, nil
}

func (c *Cache) Set(ctx context.Context, settings *domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key, raw, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, Key).Err()
}
