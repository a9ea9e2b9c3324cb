package chi

import (
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/result"
	healthuc "github.com/houston-ecosystem/ecomap/internal/usecase/health"
)

// SearchItem is one ranked hit in a SearchResponse.
type SearchItem struct {
	ID          string           `json:"id"`
	Kind        entity.Kind      `json:"kind"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Website     string           `json:"website,omitempty"`
	Tags        []string         `json:"tags"`
	Stage       string           `json:"stage,omitempty"`
	Category    string           `json:"category,omitempty"`
	Location    *entity.Location `json:"location,omitempty"`
	Score       float64          `json:"score"`
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// FeatureCollection is a GeoJSON collection of point features.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON point feature for one entity.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// Geometry is a GeoJSON point; Coordinates are [lng, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureProperties carries the entity fields except its location.
type FeatureProperties struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Website     string   `json:"website,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	FundSize    string   `json:"fundSize,omitempty"`
	StageFocus  string   `json:"stageFocus,omitempty"`
	Stage       string   `json:"stage,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func searchResponseFromPage(p *result.Page) SearchResponse {
	items := make([]SearchItem, 0, len(p.Items()))
	for _, hit := range p.Items() {
		items = append(items, searchItemFromHit(&hit))
	}
	return SearchResponse{
		Items: items,
		Total: p.Total(),
		Page:  p.Page(),
		Limit: p.Limit(),
	}
}

func searchItemFromHit(h *result.Hit) SearchItem {
	doc := h.Document()
	tags := doc.Tags()
	if tags == nil {
		tags = []string{}
	}
	return SearchItem{
		ID:          doc.ID(),
		Kind:        doc.Kind(),
		Name:        doc.Name(),
		Description: doc.Description(),
		Website:     doc.Website(),
		Tags:        tags,
		Stage:       doc.Stage(),
		Category:    doc.Category(),
		Location:    doc.Location(),
		Score:       h.Score(),
	}
}

func featureCollection(list []entity.Entity) FeatureCollection {
	features := make([]Feature, 0, len(list))
	for i := range list {
		features = append(features, featureFromEntity(&list[i]))
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

func featureFromEntity(e *entity.Entity) Feature {
	props := FeatureProperties{
		ID:          e.ID(),
		Name:        e.Name(),
		Website:     e.Website(),
		Description: e.Description(),
		Tags:        e.Tags(),
	}
	if props.Tags == nil {
		props.Tags = []string{}
	}
	switch e.Kind() {
	case entity.KindFirm:
		props.FundSize = e.FundSize()
		props.StageFocus = e.Stage()
	case entity.KindStartup:
		props.Stage = e.Stage()
		props.Industry = e.Industry()
	case entity.KindCommunity:
		props.Category = e.Category()
	}

	loc := e.Location()
	return Feature{
		Type:       "Feature",
		Geometry:   Geometry{Type: "Point", Coordinates: [2]float64{loc.Lng, loc.Lat}},
		Properties: props,
	}
}

// kindFromPlural resolves a collection path segment such as "firms".
func kindFromPlural(plural string) (entity.Kind, bool) {
	for _, k := range entity.Kinds {
		if k.Plural() == plural {
			return k, true
		}
	}
	return "", false
}
