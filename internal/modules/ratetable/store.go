// README: Rate table store backed by PostgreSQL (jsonb documents, newest wins).
package ratetable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Load implements Source with the most recently published table.
func (s *Store) Load(ctx context.Context) (*RateTable, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `
        SELECT document
        FROM rate_tables
        ORDER BY created_at DESC, id DESC
        LIMIT 1`,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoTable
	}
	if err != nil {
		return nil, fmt.Errorf("query rate table: %w", err)
	}
	return Parse(doc)
}

// Save publishes t as the newest table.
func (s *Store) Save(ctx context.Context, t *RateTable) error {
	if err := Validate(t); err != nil {
		return err
	}
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO rate_tables (version, document, created_at)
        VALUES ($1, $2, NOW())`,
		t.Version, doc,
	)
	return err
}
