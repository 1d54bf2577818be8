package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/veyrane/stashwise/internal/engine"
)

// Schema is the SQL DDL for the advisor_profiles table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS advisor_profiles (
    character_name   TEXT PRIMARY KEY,
    build            JSONB,
    overrides        JSONB NOT NULL DEFAULT '{}',
    keep_quantities  JSONB NOT NULL DEFAULT '{}',
    ignored_npcs     JSONB NOT NULL DEFAULT '[]',
    archived         JSONB NOT NULL DEFAULT '[]',
    default_gem_keep INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database. It serialises
// the structured sub-fields (build, overrides, quantities) as JSONB.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a [PostgresStore] over the given connection or
// pool. Call [PostgresStore.Migrate] before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL, creating the advisor_profiles table if
// it does not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("profile: migrate: %w", err)
	}
	return nil
}

// Get implements [Store.Get].
func (s *PostgresStore) Get(ctx context.Context, character string) (*Profile, error) {
	const query = `
		SELECT character_name, build, overrides, keep_quantities, ignored_npcs,
		       archived, default_gem_keep, created_at, updated_at
		FROM advisor_profiles
		WHERE character_name = $1`

	var p Profile
	var buildJSON, ovJSON, kqJSON, npcJSON, archJSON []byte

	err := s.db.QueryRow(ctx, query, character).Scan(
		&p.Character, &buildJSON, &ovJSON, &kqJSON, &npcJSON,
		&archJSON, &p.DefaultGemKeep, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: get %q: %w", character, err)
	}

	if err := unmarshalFields(&p, buildJSON, ovJSON, kqJSON, npcJSON, archJSON); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save implements [Store.Save] as an upsert.
func (s *PostgresStore) Save(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var buildJSON []byte
	if p.Build != nil {
		var err error
		buildJSON, err = json.Marshal(p.Build)
		if err != nil {
			return fmt.Errorf("profile: marshal build: %w", err)
		}
	}
	ovJSON, err := json.Marshal(emptyOverrides(p.Overrides))
	if err != nil {
		return fmt.Errorf("profile: marshal overrides: %w", err)
	}
	kqJSON, err := json.Marshal(emptyQuantities(p.KeepQuantities))
	if err != nil {
		return fmt.Errorf("profile: marshal keep_quantities: %w", err)
	}
	npcJSON, err := json.Marshal(emptySlice(p.IgnoredNPCs))
	if err != nil {
		return fmt.Errorf("profile: marshal ignored_npcs: %w", err)
	}
	archJSON, err := json.Marshal(emptySlice(p.Archived))
	if err != nil {
		return fmt.Errorf("profile: marshal archived: %w", err)
	}

	const query = `
		INSERT INTO advisor_profiles (
			character_name, build, overrides, keep_quantities, ignored_npcs,
			archived, default_gem_keep
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (character_name) DO UPDATE SET
			build = EXCLUDED.build,
			overrides = EXCLUDED.overrides,
			keep_quantities = EXCLUDED.keep_quantities,
			ignored_npcs = EXCLUDED.ignored_npcs,
			archived = EXCLUDED.archived,
			default_gem_keep = EXCLUDED.default_gem_keep,
			updated_at = now()
		RETURNING created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		p.Character, buildJSON, ovJSON, kqJSON, npcJSON,
		archJSON, p.DefaultGemKeep,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("profile: save %q: %w", p.Character, err)
	}
	return nil
}

// List implements [Store.List].
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	const query = `SELECT character_name FROM advisor_profiles ORDER BY character_name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("profile: list scan: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}
	return names, nil
}

// Delete implements [Store.Delete].
func (s *PostgresStore) Delete(ctx context.Context, character string) error {
	const query = `DELETE FROM advisor_profiles WHERE character_name = $1`
	if _, err := s.db.Exec(ctx, query, character); err != nil {
		return fmt.Errorf("profile: delete %q: %w", character, err)
	}
	return nil
}

// unmarshalFields deserialises the JSONB columns into the corresponding
// [Profile] fields.
func unmarshalFields(p *Profile, build, ov, kq, npcs, arch []byte) error {
	if len(build) > 0 && string(build) != "null" {
		p.Build = &engine.BuildConfig{}
		if err := json.Unmarshal(build, p.Build); err != nil {
			return fmt.Errorf("profile: unmarshal build: %w", err)
		}
	}
	if err := json.Unmarshal(ov, &p.Overrides); err != nil {
		return fmt.Errorf("profile: unmarshal overrides: %w", err)
	}
	if err := json.Unmarshal(kq, &p.KeepQuantities); err != nil {
		return fmt.Errorf("profile: unmarshal keep_quantities: %w", err)
	}
	if err := json.Unmarshal(npcs, &p.IgnoredNPCs); err != nil {
		return fmt.Errorf("profile: unmarshal ignored_npcs: %w", err)
	}
	if err := json.Unmarshal(arch, &p.Archived); err != nil {
		return fmt.Errorf("profile: unmarshal archived: %w", err)
	}
	return nil
}

// emptySlice returns s if non-nil, otherwise an empty non-nil slice, so
// JSON marshalling produces "[]" instead of "null".
func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyOverrides(m map[string]engine.Override) map[string]engine.Override {
	if m == nil {
		return map[string]engine.Override{}
	}
	return m
}

func emptyQuantities(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
