package ecomap

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	seedFile    string
	seedData    []byte
	postgresDSN string
	seedOnStart bool

	redisAddrs    []string
	redisPassword string
	cacheTTL      time.Duration
	cachePrefix   string

	breaker        bool
	breakerTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSeedFile serves entities from a YAML seed file.
func WithSeedFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.seedFile = path
	})
}

// WithSeedYAML serves entities from in-memory YAML in seed-file format.
func WithSeedYAML(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.seedData = data
	})
}

// WithPostgres reads entities from Postgres. The schema is created if missing.
// If seed data is also configured, it is upserted into the database on New.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postgresDSN = dsn
		c.seedOnStart = true
	})
}

// WithRedisCache caches the entity lists in Redis for ttl.
// A non-positive ttl keeps lists until they are evicted.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
		c.cacheTTL = ttl
	})
}

// WithCacheKeyPrefix namespaces cache keys. Default: "ecomap:".
func WithCacheKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cachePrefix = prefix
	})
}

// WithCircuitBreaker fails entity reads fast after repeated errors.
// The circuit is retried after openTimeout. Default timeout: 30s.
func WithCircuitBreaker(openTimeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.breaker = true
		c.breakerTimeout = openTimeout
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
