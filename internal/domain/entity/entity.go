package entity

import (
	"fmt"
	"strings"

	"github.com/houston-ecosystem/ecomap/internal/domain"
	"github.com/houston-ecosystem/ecomap/internal/domain/geo"
)

// MaxNameLength bounds entity names.
const MaxNameLength = 256

// Location is a geographic point with an optional street address.
type Location struct {
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
	Address string  `json:"address,omitempty" yaml:"address,omitempty"`
}

// Attrs holds the optional attributes of an entity. Empty strings mean absent.
type Attrs struct {
	Website     string
	Description string
	Stage       string // firm stage focus or startup stage
	Industry    string // startup only
	Category    string // community only
	FundSize    string // firm only
}

// Entity is a read-only snapshot of a firm, startup or community.
type Entity struct {
	id       string
	kind     Kind
	name     string
	tags     []string
	attrs    Attrs
	location Location
}

// New validates and creates an Entity.
// Kind-specific attributes that do not belong to the kind are dropped.
func New(id string, kind Kind, name string, tags []string, attrs Attrs, loc Location) (Entity, error) {
	if id == "" {
		return Entity{}, fmt.Errorf("%w: ID is required", domain.ErrInvalidEntity)
	}
	if !kind.IsValid() {
		return Entity{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Entity{}, fmt.Errorf("%w: name is required", domain.ErrInvalidEntity)
	}
	if len(name) > MaxNameLength {
		return Entity{}, fmt.Errorf("%w: name too long (max %d)", domain.ErrInvalidEntity, MaxNameLength)
	}
	if !geo.ValidateCoordinates(loc.Lat, loc.Lng) {
		return Entity{}, fmt.Errorf("%w: invalid coordinates (%g, %g)", domain.ErrInvalidEntity, loc.Lat, loc.Lng)
	}

	switch kind {
	case KindFirm:
		attrs.Industry, attrs.Category = "", ""
	case KindStartup:
		attrs.Category, attrs.FundSize = "", ""
	case KindCommunity:
		attrs.Stage, attrs.Industry, attrs.FundSize = "", "", ""
	}

	return Reconstruct(id, kind, name, tags, attrs, loc), nil
}

// Reconstruct creates an Entity without validation (storage hydration).
func Reconstruct(id string, kind Kind, name string, tags []string, attrs Attrs, loc Location) Entity {
	return Entity{
		id:       id,
		kind:     kind,
		name:     name,
		tags:     cloneTags(tags),
		attrs:    attrs,
		location: loc,
	}
}

// ID returns the entity identifier.
func (e *Entity) ID() string { return e.id }

// Kind returns the entity variant.
func (e *Entity) Kind() Kind { return e.kind }

// Name returns the display name.
func (e *Entity) Name() string { return e.name }

// Tags returns a copy of the entity tags.
func (e *Entity) Tags() []string { return cloneTags(e.tags) }

// Website returns the website URL, empty if absent.
func (e *Entity) Website() string { return e.attrs.Website }

// Description returns the free-text description, empty if absent.
func (e *Entity) Description() string { return e.attrs.Description }

// Stage returns the stage (startup) or stage focus (firm).
func (e *Entity) Stage() string { return e.attrs.Stage }

// Industry returns the startup industry.
func (e *Entity) Industry() string { return e.attrs.Industry }

// Category returns the community category.
func (e *Entity) Category() string { return e.attrs.Category }

// FundSize returns the firm fund size.
func (e *Entity) FundSize() string { return e.attrs.FundSize }

// Location returns the geographic location.
func (e *Entity) Location() Location { return e.location }

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
