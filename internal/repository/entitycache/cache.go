package entitycache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/houston-ecosystem/ecomap/internal/db"
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

// Source lists entities of each kind.
type Source interface {
	ListFirms(ctx context.Context) ([]entity.Entity, error)
	ListStartups(ctx context.Context) ([]entity.Entity, error)
	ListCommunities(ctx context.Context) ([]entity.Entity, error)
}

// store is the consumer interface for the entity cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedSource caches whole entity lists in a key-value store.
// Cache failures never fail a read: they are logged and the inner source is used.
type CachedSource struct {
	inner      Source
	store      store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a read-through caching decorator.
// cacheTotal is a counter vec with labels "kind" and "result" ("hit"/"miss"), passed explicitly.
// A non-positive ttl stores lists without expiry.
func New(
	inner Source,
	s store,
	ttl time.Duration,
	prefix string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSource {
	return &CachedSource{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		prefix:     prefix,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// ListFirms returns cached firms or reads them from the inner source.
func (c *CachedSource) ListFirms(ctx context.Context) ([]entity.Entity, error) {
	return c.list(ctx, entity.KindFirm, c.inner.ListFirms)
}

// ListStartups returns cached startups or reads them from the inner source.
func (c *CachedSource) ListStartups(ctx context.Context) ([]entity.Entity, error) {
	return c.list(ctx, entity.KindStartup, c.inner.ListStartups)
}

// ListCommunities returns cached communities or reads them from the inner source.
func (c *CachedSource) ListCommunities(ctx context.Context) ([]entity.Entity, error) {
	return c.list(ctx, entity.KindCommunity, c.inner.ListCommunities)
}

func (c *CachedSource) list(
	ctx context.Context,
	kind entity.Kind,
	load func(context.Context) ([]entity.Entity, error),
) ([]entity.Entity, error) {
	key := c.cacheKey(kind)

	if list, ok := c.getFromCache(ctx, key, kind); ok {
		c.incCache(kind, "hit")
		return list, nil
	}

	c.incCache(kind, "miss")

	list, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
	}

	c.putToCache(ctx, key, list)
	return list, nil
}

func (c *CachedSource) cacheKey(kind entity.Kind) string {
	return c.prefix + "entities:" + kind.Plural()
}

func (c *CachedSource) incCache(kind entity.Kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(string(kind), result).Inc()
	}
}

func (c *CachedSource) getFromCache(ctx context.Context, key string, kind entity.Kind) ([]entity.Entity, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached entities", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	list, err := decode(data, kind)
	if err != nil {
		c.logger.Warn("Dropping unreadable cached entities", zap.String("key", key), zap.Error(err))
		if err := c.store.Del(ctx, key); err != nil {
			c.logger.Warn("Failed to delete cached entities", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return list, true
}

func (c *CachedSource) putToCache(ctx context.Context, key string, list []entity.Entity) {
	data, err := encode(list)
	if err != nil {
		c.logger.Warn("Failed to encode entities for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	} else {
		err = c.store.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Failed to cache entities", zap.String("key", key), zap.Error(err))
	}
}
