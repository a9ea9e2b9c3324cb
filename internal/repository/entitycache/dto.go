package entitycache

import (
	"encoding/json"

	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

// cachedEntity is the JSON form of an entity. The kind is implied by the cache key.
type cachedEntity struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Tags        []string        `json:"tags"`
	Website     string          `json:"website,omitempty"`
	Description string          `json:"description,omitempty"`
	Stage       string          `json:"stage,omitempty"`
	Industry    string          `json:"industry,omitempty"`
	Category    string          `json:"category,omitempty"`
	FundSize    string          `json:"fund_size,omitempty"`
	Location    entity.Location `json:"location"`
}

func encode(list []entity.Entity) ([]byte, error) {
	out := make([]cachedEntity, len(list))
	for i := range list {
		e := &list[i]
		out[i] = cachedEntity{
			ID:          e.ID(),
			Name:        e.Name(),
			Tags:        e.Tags(),
			Website:     e.Website(),
			Description: e.Description(),
			Stage:       e.Stage(),
			Industry:    e.Industry(),
			Category:    e.Category(),
			FundSize:    e.FundSize(),
			Location:    e.Location(),
		}
	}
	return json.Marshal(out)
}

func decode(data []byte, kind entity.Kind) ([]entity.Entity, error) {
	var in []cachedEntity
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	out := make([]entity.Entity, len(in))
	for i := range in {
		r := &in[i]
		out[i] = entity.Reconstruct(r.ID, kind, r.Name, r.Tags, entity.Attrs{
			Website:     r.Website,
			Description: r.Description,
			Stage:       r.Stage,
			Industry:    r.Industry,
			Category:    r.Category,
			FundSize:    r.FundSize,
		}, r.Location)
	}
	return out, nil
}
