package ecomap

import "github.com/houston-ecosystem/ecomap/internal/domain/entity"

// Kind distinguishes the three entity types of the directory.
type Kind string

// Kind constants.
const (
	KindFirm      Kind = Kind(entity.KindFirm)
	KindStartup   Kind = Kind(entity.KindStartup)
	KindCommunity Kind = Kind(entity.KindCommunity)
)

// Location is a geographic point with an optional street address.
type Location struct {
	Lat     float64
	Lng     float64
	Address string
}

// Entity is a firm, startup or community. Attributes that do not apply to
// the kind are empty.
type Entity struct {
	ID          string
	Kind        Kind
	Name        string
	Website     string
	Description string
	Tags        []string
	Stage       string // firm stage focus or startup stage
	Industry    string // startups
	Category    string // communities
	FundSize    string // firms
	Location    Location
}

// Hit is one ranked search result.
type Hit struct {
	ID          string
	Kind        Kind
	Name        string
	Description string
	Website     string
	Tags        []string
	Stage       string
	Category    string
	Location    *Location
	Score       float64
}

// SearchResult is one page of ranked hits.
type SearchResult struct {
	Hits  []Hit
	Total int
	Page  int
	Limit int
}

func entityFromDomain(e *entity.Entity) Entity {
	loc := e.Location()
	return Entity{
		ID:          e.ID(),
		Kind:        Kind(e.Kind()),
		Name:        e.Name(),
		Website:     e.Website(),
		Description: e.Description(),
		Tags:        e.Tags(),
		Stage:       e.Stage(),
		Industry:    e.Industry(),
		Category:    e.Category(),
		FundSize:    e.FundSize(),
		Location:    Location{Lat: loc.Lat, Lng: loc.Lng, Address: loc.Address},
	}
}
