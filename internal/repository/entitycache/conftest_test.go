package entitycache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/houston-ecosystem/ecomap/internal/db"
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

type mockSource struct {
	firms       []entity.Entity
	startups    []entity.Entity
	communities []entity.Entity
	err         error
	calls       int
}

func (m *mockSource) ListFirms(_ context.Context) ([]entity.Entity, error) {
	m.calls++
	return m.firms, m.err
}

func (m *mockSource) ListStartups(_ context.Context) ([]entity.Entity, error) {
	m.calls++
	return m.startups, m.err
}

func (m *mockSource) ListCommunities(_ context.Context) ([]entity.Entity, error) {
	m.calls++
	return m.communities, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn        func(ctx context.Context, key string) ([]byte, error)
	setFn        func(ctx context.Context, key string, value []byte) error
	setWithTTLFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn        func(ctx context.Context, key string) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setWithTTLFn != nil {
		return m.setWithTTLFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newTestCachedSource(t *testing.T, inner *mockSource, ttl time.Duration) (*CachedSource, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cs := New(inner, ms, ttl, "ecomap:", nil, zap.NewNop())
	return cs, ms
}

func sampleFirm() entity.Entity {
	return entity.Reconstruct("firm-bayou-capital", entity.KindFirm, "Bayou Capital",
		[]string{"seed", "energy"},
		entity.Attrs{Website: "https://bayou.capital", Stage: "Seed", FundSize: "$75M"},
		entity.Location{Lat: 29.7604, Lng: -95.3698, Address: "Downtown Houston, TX"})
}
