package ecomap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/houston-ecosystem/ecomap/internal/db/redis"
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/request"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/result"
	"github.com/houston-ecosystem/ecomap/internal/repository/breaker"
	entityrepo "github.com/houston-ecosystem/ecomap/internal/repository/entity"
	"github.com/houston-ecosystem/ecomap/internal/repository/entitycache"
	"github.com/houston-ecosystem/ecomap/internal/repository/seed"
	cataloguc "github.com/houston-ecosystem/ecomap/internal/usecase/catalog"
	healthuc "github.com/houston-ecosystem/ecomap/internal/usecase/health"
	searchuc "github.com/houston-ecosystem/ecomap/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultBreakerTimeout   = 30 * time.Second
	defaultCachePrefix      = "ecomap:"
)

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Page, error)
}

type catalogUseCase interface {
	List(ctx context.Context, kind entity.Kind) ([]entity.Entity, error)
}

// source is an entity source that can also report its own health.
type source interface {
	searchuc.EntitySource
	Ping(ctx context.Context) error
}

// Client is the ecomap SDK entry point.
type Client struct {
	closers    []func()
	searchSvc  searchUseCase
	catalogSvc catalogUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client and connects to the configured entity source.
// The provided context bounds the initial connection and seeding.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		cachePrefix:    defaultCachePrefix,
		breakerTimeout: defaultBreakerTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs}
	base, err := c.openSource(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	var src searchuc.EntitySource = base
	if cfg.breaker {
		src = breaker.New(src, breaker.Config{
			MinRequests:      5,
			FailureRatio:     0.5,
			OpenTimeout:      cfg.breakerTimeout,
			HalfOpenMaxCalls: 1,
		}, zap.NewNop())
	}

	// Pass nil interface (not typed nil pointer) when the cache is disabled.
	var cachePinger healthuc.Pinger
	if len(cfg.redisAddrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("ecomap: create redis store: %w", err)
		}
		c.closers = append(c.closers, store.Close)
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			c.Close()
			return nil, fmt.Errorf("ecomap: cache not ready: %w", err)
		}
		src = entitycache.New(src, store, cfg.cacheTTL, cfg.cachePrefix, obs.metrics.cache, zap.NewNop())
		cachePinger = store
	}

	c.searchSvc = searchuc.New(src)
	c.catalogSvc = cataloguc.New(src)
	c.healthSvc = healthuc.New(base, cachePinger)
	return c, nil
}

func (c *Client) openSource(ctx context.Context, cfg *clientConfig) (source, error) {
	var seeded *seed.Source
	var err error
	switch {
	case cfg.seedData != nil:
		seeded, err = seed.Parse(cfg.seedData)
	case cfg.seedFile != "":
		seeded, err = seed.Load(cfg.seedFile)
	}
	if err != nil {
		return nil, fmt.Errorf("ecomap: load seed: %w", err)
	}

	if cfg.postgresDSN == "" {
		if seeded == nil {
			return nil, errors.New("ecomap: entity source required (use WithSeedFile, WithSeedYAML or WithPostgres)")
		}
		return seeded, nil
	}

	sqlDB, err := entityrepo.OpenDB(ctx, cfg.postgresDSN, entityrepo.PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("ecomap: open database: %w", err)
	}
	c.closers = append(c.closers, func() { _ = sqlDB.Close() })

	repo := entityrepo.New(sqlDB)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ecomap: ensure schema: %w", err)
	}
	if seeded != nil && cfg.seedOnStart {
		if err := repo.Upsert(ctx, seeded.All()); err != nil {
			return nil, fmt.Errorf("ecomap: seed database: %w", err)
		}
	}
	return repo, nil
}

// Close releases all resources. It is safe to call more than once.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// List returns every live entity of one kind in source order.
func (c *Client) List(ctx context.Context, kind Kind) (_ []Entity, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", start, err) }()

	list, err := c.catalogSvc.List(ctx, entity.Kind(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	out := make([]Entity, len(list))
	for i := range list {
		out[i] = entityFromDomain(&list[i])
	}
	return out, nil
}
