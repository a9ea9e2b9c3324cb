package entity

import (
	"database/sql"

	domentity "github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

// entityRow is the scan target shared by all three tables.
// Columns a kind does not have are selected as NULL.
type entityRow struct {
	ID          string
	Name        string
	Website     sql.NullString
	Description sql.NullString
	Tags        sql.NullString
	Stage       sql.NullString
	Industry    sql.NullString
	Category    sql.NullString
	FundSize    sql.NullString
	Lat         float64
	Lng         float64
	Address     sql.NullString
}

// toDomain hydrates a row without validation; NULL columns become absent attributes.
func (r *entityRow) toDomain(kind domentity.Kind) domentity.Entity {
	return domentity.Reconstruct(
		r.ID, kind, r.Name,
		domentity.ParseTags(r.Tags.String),
		domentity.Attrs{
			Website:     r.Website.String,
			Description: r.Description.String,
			Stage:       r.Stage.String,
			Industry:    r.Industry.String,
			Category:    r.Category.String,
			FundSize:    r.FundSize.String,
		},
		domentity.Location{Lat: r.Lat, Lng: r.Lng, Address: r.Address.String},
	)
}
