package entity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/houston-ecosystem/ecomap/internal/db"
	domentity "github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

// PoolConfig sizes the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenDB opens a Postgres connection pool through the pgx stdlib driver and pings it.
func OpenDB(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return sqlDB, nil
}

// Repo reads firms, startups and communities from Postgres.
// Soft-deleted rows (deleted_at set) are never returned.
type Repo struct {
	db *sql.DB
}

// New creates a Postgres entity repository.
func New(sqlDB *sql.DB) *Repo {
	return &Repo{db: sqlDB}
}

// EnsureSchema creates the entity tables if they do not exist.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrently starting replicas.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaDDL); err != nil {
		return &db.Error{Op: db.OpSchema, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// ListFirms returns all live firms ordered by name.
func (r *Repo) ListFirms(ctx context.Context) ([]domentity.Entity, error) {
	return r.list(ctx, domentity.KindFirm)
}

// ListStartups returns all live startups ordered by name.
func (r *Repo) ListStartups(ctx context.Context) ([]domentity.Entity, error) {
	return r.list(ctx, domentity.KindStartup)
}

// ListCommunities returns all live communities ordered by name.
func (r *Repo) ListCommunities(ctx context.Context) ([]domentity.Entity, error) {
	return r.list(ctx, domentity.KindCommunity)
}

func (r *Repo) list(ctx context.Context, kind domentity.Kind) ([]domentity.Entity, error) {
	t := tables[kind]
	rows, err := r.db.QueryContext(ctx, t.listQuery())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, &db.Error{Op: db.OpSelect, Err: err})
	}
	defer func() { _ = rows.Close() }()

	out := make([]domentity.Entity, 0)
	for rows.Next() {
		var row entityRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Website, &row.Description, &row.Tags,
			&row.Stage, &row.Industry, &row.Category, &row.FundSize,
			&row.Lat, &row.Lng, &row.Address,
		); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", t.name, err)
		}
		out = append(out, row.toDomain(kind))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.name, &db.Error{Op: db.OpSelect, Err: err})
	}
	return out, nil
}

// Upsert inserts or replaces entities by ID in a single transaction.
// Soft-deleted rows are revived.
func (r *Repo) Upsert(ctx context.Context, entities []domentity.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for i := range entities {
		e := &entities[i]
		t, ok := tables[e.Kind()]
		if !ok {
			return fmt.Errorf("upsert %s: unknown kind %q", e.ID(), e.Kind())
		}
		if _, err := tx.ExecContext(ctx, t.upsertQuery(), t.upsertArgs(e, now)...); err != nil {
			return fmt.Errorf("upsert %s %s: %w", t.name, e.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}
	return nil
}

// table maps an entity kind to its storage table. Empty column names mark
// attributes the kind does not carry.
type table struct {
	name        string
	stageCol    string
	industryCol string
	categoryCol string
	fundCol     string
}

var tables = map[domentity.Kind]table{
	domentity.KindFirm:      {name: "firms", stageCol: "stage_focus", fundCol: "fund_size"},
	domentity.KindStartup:   {name: "startups", stageCol: "stage", industryCol: "industry"},
	domentity.KindCommunity: {name: "communities", categoryCol: "category"},
}

func colOrNull(col string) string {
	if col == "" {
		return "NULL::text"
	}
	return col
}

func (t table) listQuery() string {
	return fmt.Sprintf(`
SELECT id, name, website, description, tags, %s, %s, %s, %s, latitude, longitude, address
FROM %s
WHERE deleted_at IS NULL
ORDER BY name, id
`, colOrNull(t.stageCol), colOrNull(t.industryCol), colOrNull(t.categoryCol), colOrNull(t.fundCol), t.name)
}

func (t table) extraCols() []string {
	var cols []string
	for _, c := range []string{t.stageCol, t.industryCol, t.categoryCol, t.fundCol} {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func (t table) upsertQuery() string {
	cols := append([]string{
		"id", "name", "website", "description", "tags", "latitude", "longitude", "address",
	}, t.extraCols()...)
	cols = append(cols, "created_at", "updated_at")

	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if c != "id" && c != "created_at" {
			updates = append(updates, c+" = EXCLUDED."+c)
		}
	}
	updates = append(updates, "deleted_at = NULL")

	return fmt.Sprintf(`
INSERT INTO %s (%s) VALUES (%s)
ON CONFLICT (id) DO UPDATE SET %s
`, t.name, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

func (t table) upsertArgs(e *domentity.Entity, now time.Time) []any {
	loc := e.Location()
	args := []any{
		e.ID(), e.Name(), nullString(e.Website()), nullString(e.Description()),
		domentity.FormatTags(e.Tags()), loc.Lat, loc.Lng, nullString(loc.Address),
	}
	if t.stageCol != "" {
		args = append(args, nullString(e.Stage()))
	}
	if t.industryCol != "" {
		args = append(args, nullString(e.Industry()))
	}
	if t.categoryCol != "" {
		args = append(args, nullString(e.Category()))
	}
	if t.fundCol != "" {
		args = append(args, nullString(e.FundSize()))
	}
	return append(args, now, now)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

const schemaLockID int64 = 2026101901

const schemaDDL = `
CREATE TABLE IF NOT EXISTS firms (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	website TEXT,
	description TEXT,
	tags TEXT NOT NULL DEFAULT '[]',
	fund_size TEXT,
	stage_focus TEXT,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	address TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS startups (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	website TEXT,
	description TEXT,
	tags TEXT NOT NULL DEFAULT '[]',
	stage TEXT,
	industry TEXT,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	address TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS communities (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	website TEXT,
	description TEXT,
	tags TEXT NOT NULL DEFAULT '[]',
	category TEXT,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	address TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_firms_live ON firms(name) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_startups_live ON startups(name) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_communities_live ON communities(name) WHERE deleted_at IS NULL;
`
