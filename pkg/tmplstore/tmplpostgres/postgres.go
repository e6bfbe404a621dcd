package tmplpostgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/tmplstore"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Schema creates the table the store reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS active_message_templates (
	name       TEXT PRIMARY KEY,
	attributes JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore reads overrides from the active_message_templates table, one
// row per template name with the override as a JSONB object.
type PostgresStore struct {
	db *sqlx.DB
}

var _ tmplstore.Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store on db.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return tmplstore.Backend("", err).WithDetail("op", "migrate")
	}
	return nil
}

// Template returns the stored override, or nil when no row exists.
func (s *PostgresStore) Template(ctx context.Context, name string) (activemsg.TemplateOverride, error) {
	var attributes []byte
	query := `SELECT attributes FROM active_message_templates WHERE name = $1`
	err := s.db.GetContext(ctx, &attributes, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, backend(name, err)
	}
	return tmplstore.Decode(name, attributes)
}

// Save inserts or replaces the override for name.
func (s *PostgresStore) Save(ctx context.Context, name string, override activemsg.TemplateOverride) error {
	if err := tmplstore.ValidateName(name); err != nil {
		return err
	}
	data, err := tmplstore.Encode(name, override)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO active_message_templates (name, attributes, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET
			attributes = EXCLUDED.attributes,
			updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, query, name, data); err != nil {
		return backend(name, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM active_message_templates WHERE name = $1`
	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return backend(name, err)
	}
	return nil
}

func (s *PostgresStore) Names(ctx context.Context) ([]string, error) {
	var names []string
	query := `SELECT name FROM active_message_templates ORDER BY name`
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, backend("", err)
	}
	return names, nil
}

func backend(name string, err error) error {
	e := tmplstore.Backend(name, err)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		e = e.WithDetail("pg_code", string(pqErr.Code))
		if pqErr.Code == "42P01" { // undefined_table
			e = e.WithDetail("hint", "run PostgresStore.Migrate")
		}
	}
	return e
}
