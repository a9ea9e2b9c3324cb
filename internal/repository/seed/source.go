package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

// record is the YAML shape of one seeded entity.
type record struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Website     string          `yaml:"website"`
	Description string          `yaml:"description"`
	Tags        []string        `yaml:"tags"`
	Stage       string          `yaml:"stage"`
	Industry    string          `yaml:"industry"`
	Category    string          `yaml:"category"`
	FundSize    string          `yaml:"fund_size"`
	Location    entity.Location `yaml:"location"`
}

type file struct {
	Firms       []record `yaml:"firms"`
	Startups    []record `yaml:"startups"`
	Communities []record `yaml:"communities"`
}

// Source serves a fixed, in-memory entity set loaded from a YAML seed file.
type Source struct {
	firms       []entity.Entity
	startups    []entity.Entity
	communities []entity.Entity
}

// Load reads and validates a seed file.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse validates seed YAML. Entity IDs must be unique across all kinds.
func Parse(data []byte) (*Source, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}

	seen := make(map[string]struct{})
	s := &Source{}
	var err error
	if s.firms, err = build(entity.KindFirm, f.Firms, seen); err != nil {
		return nil, err
	}
	if s.startups, err = build(entity.KindStartup, f.Startups, seen); err != nil {
		return nil, err
	}
	if s.communities, err = build(entity.KindCommunity, f.Communities, seen); err != nil {
		return nil, err
	}
	return s, nil
}

func build(kind entity.Kind, records []record, seen map[string]struct{}) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, len(records))
	for i := range records {
		r := &records[i]
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("seed %s[%d]: duplicate id %q", kind.Plural(), i, r.ID)
		}
		e, err := entity.New(r.ID, kind, r.Name, r.Tags, entity.Attrs{
			Website:     r.Website,
			Description: r.Description,
			Stage:       r.Stage,
			Industry:    r.Industry,
			Category:    r.Category,
			FundSize:    r.FundSize,
		}, r.Location)
		if err != nil {
			return nil, fmt.Errorf("seed %s[%d]: %w", kind.Plural(), i, err)
		}
		seen[r.ID] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}

// ListFirms returns the seeded firms.
func (s *Source) ListFirms(_ context.Context) ([]entity.Entity, error) {
	return clone(s.firms), nil
}

// ListStartups returns the seeded startups.
func (s *Source) ListStartups(_ context.Context) ([]entity.Entity, error) {
	return clone(s.startups), nil
}

// ListCommunities returns the seeded communities.
func (s *Source) ListCommunities(_ context.Context) ([]entity.Entity, error) {
	return clone(s.communities), nil
}

// All returns every seeded entity: firms, then startups, then communities.
func (s *Source) All() []entity.Entity {
	out := make([]entity.Entity, 0, len(s.firms)+len(s.startups)+len(s.communities))
	out = append(out, s.firms...)
	out = append(out, s.startups...)
	return append(out, s.communities...)
}

// Ping always succeeds; the data is in memory.
func (s *Source) Ping(_ context.Context) error { return nil }

func clone(in []entity.Entity) []entity.Entity {
	out := make([]entity.Entity, len(in))
	copy(out, in)
	return out
}
