package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/houston-ecosystem/ecomap/internal/config"
	"github.com/houston-ecosystem/ecomap/internal/db"
	dbRedis "github.com/houston-ecosystem/ecomap/internal/db/redis"
	logpkg "github.com/houston-ecosystem/ecomap/internal/logger"
	"github.com/houston-ecosystem/ecomap/internal/metrics"
	"github.com/houston-ecosystem/ecomap/internal/repository/breaker"
	entityrepo "github.com/houston-ecosystem/ecomap/internal/repository/entity"
	"github.com/houston-ecosystem/ecomap/internal/repository/entitycache"
	"github.com/houston-ecosystem/ecomap/internal/repository/seed"
	chiTransport "github.com/houston-ecosystem/ecomap/internal/transport/chi"
	cataloguc "github.com/houston-ecosystem/ecomap/internal/usecase/catalog"
	healthuc "github.com/houston-ecosystem/ecomap/internal/usecase/health"
	searchuc "github.com/houston-ecosystem/ecomap/internal/usecase/search"
	"github.com/houston-ecosystem/ecomap/internal/version"
)

// entitySource is what every layer of the source chain provides.
type entitySource interface {
	searchuc.EntitySource
	Ping(ctx context.Context) error
}

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ecomap API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("breaker_enabled", cfg.Breaker.Enabled),
	)

	ctx := context.Background()
	metrics.RegisterSearchMetrics()

	// Entity source chain: database -> circuit breaker -> list cache.
	base, closeSource, err := openSource(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open entity source", zap.Error(err))
	}
	defer closeSource()

	var source searchuc.EntitySource = base
	if cfg.Breaker.Enabled {
		source = breaker.New(source, breaker.Config{
			MinRequests:      cfg.Breaker.MinRequests,
			FailureRatio:     cfg.Breaker.FailureRatio,
			OpenTimeout:      time.Duration(cfg.Breaker.OpenTimeoutSec) * time.Second,
			HalfOpenMaxCalls: cfg.Breaker.HalfOpenMaxCalls,
		}, logger)
	}

	// Pass nil interface (not typed nil pointer) when the cache is disabled.
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		store, err := openCache(ctx, &cfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to cache", zap.Error(err))
		}
		defer store.Close()

		source = entitycache.New(source, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second, cfg.Cache.KeyPrefix,
			metrics.EntityCacheTotal, logger)
		cachePinger = store
	}

	searchSvc := searchuc.NewInstrumented(searchuc.New(source))
	catalogSvc := cataloguc.New(source)
	healthSvc := healthuc.New(base, cachePinger)

	server := chiTransport.NewServer(searchSvc, catalogSvc, healthSvc, logger).
		WithRequestTimeout(time.Duration(cfg.HTTP.RequestTimeoutSec) * time.Second)
	router := chiTransport.NewRouter(server, logger, cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openSource connects the configured entity database. For postgres it
// ensures the schema and optionally upserts the seed file.
func openSource(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (entitySource, func(), error) {
	switch cfg.Driver {
	case config.DriverSeed:
		src, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load seed file: %w", err)
		}
		logger.Info("Loaded seed entities", zap.String("file", cfg.SeedFile), zap.Int("count", len(src.All())))
		return src, func() {}, nil

	case config.DriverPostgres:
		readyCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second)
		defer cancel()

		sqlDB, err := entityrepo.OpenDB(readyCtx, cfg.DSN, entityrepo.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeSec) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() { _ = sqlDB.Close() }

		repo := entityrepo.New(sqlDB)
		if err := repo.EnsureSchema(readyCtx); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("Connected to database")

		if cfg.SeedOnStart && cfg.SeedFile != "" {
			src, err := seed.Load(cfg.SeedFile)
			if err != nil {
				closeDB()
				return nil, nil, fmt.Errorf("load seed file: %w", err)
			}
			if err := repo.Upsert(ctx, src.All()); err != nil {
				closeDB()
				return nil, nil, fmt.Errorf("seed database: %w", err)
			}
			logger.Info("Seeded database", zap.String("file", cfg.SeedFile), zap.Int("count", len(src.All())))
		}
		return repo, closeDB, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// openCache connects the Redis list cache and waits until it answers.
func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Username: cfg.Cache.Username,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	return store, nil
}
