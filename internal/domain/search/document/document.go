// Package document converts directory entities into searchable documents.
package document

import (
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/tokenize"
)

// Token weights applied when building the bag of tokens.
const (
	NameWeight        = 2
	TagWeight         = 2
	AuxiliaryWeight   = 1
	DescriptionWeight = 1
)

// Document is the ephemeral, searchable form of one entity.
// Tokens behave as a multiset; their order is fixed only for reproducibility.
type Document struct {
	id          string
	kind        entity.Kind
	name        string
	description string
	website     string
	tags        []string
	stage       string
	category    string
	location    *entity.Location
	tokens      []string
}

// FromEntity builds a Document: name and tag tokens twice each, then the
// kind's auxiliary fields once, then description tokens once.
func FromEntity(e *entity.Entity) Document {
	var aux []string
	var stage, category string
	switch e.Kind() {
	case entity.KindFirm:
		stage = e.Stage()
		aux = []string{e.Stage()}
	case entity.KindStartup:
		stage = e.Stage()
		aux = []string{e.Stage(), e.Industry()}
	case entity.KindCommunity:
		category = e.Category()
		aux = []string{e.Category()}
	}

	tags := e.Tags()
	tokens := make([]string, 0, 32)
	tokens = appendWeighted(tokens, tokenize.Tokenize(e.Name()), NameWeight)
	for _, tag := range tags {
		tokens = appendWeighted(tokens, tokenize.Tokenize(tag), TagWeight)
	}
	for _, field := range aux {
		tokens = appendWeighted(tokens, tokenize.Tokenize(field), AuxiliaryWeight)
	}
	tokens = appendWeighted(tokens, tokenize.Tokenize(e.Description()), DescriptionWeight)

	loc := e.Location()
	return Document{
		id:          e.ID(),
		kind:        e.Kind(),
		name:        e.Name(),
		description: e.Description(),
		website:     e.Website(),
		tags:        tags,
		stage:       stage,
		category:    category,
		location:    &loc,
		tokens:      tokens,
	}
}

// Reconstruct creates a Document from an already tokenized body, skipping
// the field weighting FromEntity applies.
func Reconstruct(id string, kind entity.Kind, name string, tags, tokens []string) Document {
	return Document{id: id, kind: kind, name: name, tags: tags, tokens: tokens}
}

func appendWeighted(dst, tokens []string, weight int) []string {
	for _, tok := range tokens {
		for range weight {
			dst = append(dst, tok)
		}
	}
	return dst
}

// ID returns the entity identifier.
func (d *Document) ID() string { return d.id }

// Kind returns the originating entity kind.
func (d *Document) Kind() entity.Kind { return d.kind }

// Name returns the display name.
func (d *Document) Name() string { return d.name }

// Description returns the description, empty if absent.
func (d *Document) Description() string { return d.description }

// Website returns the website, empty if absent.
func (d *Document) Website() string { return d.website }

// Tags returns the entity tags.
func (d *Document) Tags() []string { return d.tags }

// Stage returns the stage (firm stage focus or startup stage), empty if absent.
func (d *Document) Stage() string { return d.stage }

// Category returns the community category, empty if absent.
func (d *Document) Category() string { return d.category }

// Location returns the location, nil if unknown.
func (d *Document) Location() *entity.Location { return d.location }

// Tokens returns the weighted token sequence.
func (d *Document) Tokens() []string { return d.tokens }

// Len returns the number of tokens.
func (d *Document) Len() int { return len(d.tokens) }
