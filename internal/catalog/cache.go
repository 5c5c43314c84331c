package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-store-api/internal/redisx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CachedRepository serves GetByID cache-aside from Redis and evicts the
// product key on every mutation. Redis failures degrade to the database.
type CachedRepository struct {
	Repository
	redis redis.Cmdable
	group singleflight.Group
	log   *slog.Logger
}

var _ Repository = (*CachedRepository)(nil)

func NewCachedRepository(repo Repository, rdb redis.Cmdable, log *slog.Logger) *CachedRepository {
	return &CachedRepository{Repository: repo, redis: rdb, log: log}
}

func (c *CachedRepository) GetByID(ctx context.Context, id int64) (Product, error) {
	key := redisx.ProductKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == redisx.NotFoundMarker {
			return Product{}, ErrNotFound
		}
		var p Product
		if err := json.Unmarshal(data, &p); err == nil {
			return p, nil
		}
		c.log.Warn("product cache entry undecodable", "key", key, "error", err)
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("product cache read failed", "key", key, "error", err)
	}

	// Concurrent misses for one key share a single database read.
	v, err, _ := c.group.Do(key, func() (any, error) {
		p, err := c.Repository.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			c.set(ctx, key, redisx.NotFoundMarker, redisx.TTLProductNotFound)
			return nil, err
		}
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(p)
		if err != nil {
			c.log.Warn("product cache encode failed", "key", key, "error", err)
			return p, nil
		}
		c.set(ctx, key, b, redisx.TTLProduct)
		return p, nil
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}

func (c *CachedRepository) Create(ctx context.Context, userID int64, np NewProduct) (Product, error) {
	p, err := c.Repository.Create(ctx, userID, np)
	if err != nil {
		return Product{}, err
	}
	// drops a negative entry left by an earlier lookup of this id
	c.evict(ctx, p.ID)
	return p, nil
}

func (c *CachedRepository) Update(ctx context.Context, id, userID int64, patch Patch) error {
	defer c.evict(ctx, id)
	return c.Repository.Update(ctx, id, userID, patch)
}

func (c *CachedRepository) Deactivate(ctx context.Context, id, userID int64) (bool, error) {
	defer c.evict(ctx, id)
	return c.Repository.Deactivate(ctx, id, userID)
}

func (c *CachedRepository) set(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := c.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("product cache write failed", "key", key, "error", err)
	}
}

func (c *CachedRepository) evict(ctx context.Context, id int64) {
	key := redisx.ProductKey(id)
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		c.log.Warn("product cache evict failed", "key", key, "error", err)
	}
}
