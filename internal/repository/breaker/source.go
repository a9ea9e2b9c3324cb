package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/houston-ecosystem/ecomap/internal/domain"
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

// Source lists entities of each kind.
type Source interface {
	ListFirms(ctx context.Context) ([]entity.Entity, error)
	ListStartups(ctx context.Context) ([]entity.Entity, error)
	ListCommunities(ctx context.Context) ([]entity.Entity, error)
}

// Config tunes the per-kind circuit breakers.
type Config struct {
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

// GuardedSource trips a circuit per entity kind when the inner source keeps failing.
// Calls are never retried. While a circuit is open, calls fail fast with domain.ErrCircuitOpen.
type GuardedSource struct {
	inner    Source
	breakers map[entity.Kind]*gobreaker.CircuitBreaker[[]entity.Entity]
}

// New wraps inner with one circuit breaker per kind.
func New(inner Source, cfg Config, logger *zap.Logger) *GuardedSource {
	g := &GuardedSource{
		inner:    inner,
		breakers: make(map[entity.Kind]*gobreaker.CircuitBreaker[[]entity.Entity], len(entity.Kinds)),
	}
	for _, kind := range entity.Kinds {
		g.breakers[kind] = gobreaker.NewCircuitBreaker[[]entity.Entity](settings(kind, cfg, logger))
	}
	return g
}

func settings(kind entity.Kind, cfg Config, logger *zap.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "list_" + kind.Plural(),
		MaxRequests: cfg.HalfOpenMaxCalls,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		// A caller giving up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
}

// ListFirms lists firms through the firm circuit.
func (g *GuardedSource) ListFirms(ctx context.Context) ([]entity.Entity, error) {
	return g.call(ctx, entity.KindFirm, g.inner.ListFirms)
}

// ListStartups lists startups through the startup circuit.
func (g *GuardedSource) ListStartups(ctx context.Context) ([]entity.Entity, error) {
	return g.call(ctx, entity.KindStartup, g.inner.ListStartups)
}

// ListCommunities lists communities through the community circuit.
func (g *GuardedSource) ListCommunities(ctx context.Context) ([]entity.Entity, error) {
	return g.call(ctx, entity.KindCommunity, g.inner.ListCommunities)
}

// State reports the circuit state for a kind.
func (g *GuardedSource) State(kind entity.Kind) gobreaker.State {
	return g.breakers[kind].State()
}

func (g *GuardedSource) call(
	ctx context.Context,
	kind entity.Kind,
	fn func(context.Context) ([]entity.Entity, error),
) ([]entity.Entity, error) {
	list, err := g.breakers[kind].Execute(func() ([]entity.Entity, error) {
		return fn(ctx)
	})
	if err != nil {
		if isCircuitOpen(err) {
			return nil, fmt.Errorf("list %s: %w: %w", kind.Plural(), domain.ErrCircuitOpen, err)
		}
		return nil, err
	}
	return list, nil
}

func isCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
