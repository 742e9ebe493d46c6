package postgres

import (
	"Domainscope/internal/core/traffic"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type postgresTrafficRepo struct {
	db *sql.DB
}

// NewTrafficRepository creates a new PostgreSQL SimilarWeb repository
func NewTrafficRepository(db *sql.DB) traffic.Repository {
	if db == nil {
		panic("postgres: db cannot be nil")
	}
	return &postgresTrafficRepo{db: db}
}

// Get retrieves the stored traffic data for domain.
// A NULL data column is returned as JSON null.
func (r *postgresTrafficRepo) Get(ctx context.Context, domain string) (*traffic.Record, error) {
	query := `
		SELECT domain, data, created_at
		FROM similarweb_stats WHERE domain = $1`

	var rec traffic.Record
	var data, createdAt sql.NullString

	err := r.db.QueryRowContext(ctx, query, domain).Scan(&rec.Domain, &data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, traffic.ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get traffic", Err: err}
	}

	if !data.Valid {
		rec.Data = json.RawMessage("null")
	} else {
		if !json.Valid([]byte(data.String)) {
			return nil, &StoreError{Op: "get traffic", Err: fmt.Errorf("stored data for %s is not valid JSON", domain)}
		}
		rec.Data = json.RawMessage(data.String)
	}
	rec.CreatedAt = createdAt.String

	return &rec, nil
}

// Upsert inserts or replaces the traffic data for domain
func (r *postgresTrafficRepo) Upsert(ctx context.Context, domain string, data json.RawMessage) error {
	text, err := encodeData(data)
	if err != nil {
		return &StoreError{Op: "upsert traffic", Err: err}
	}

	query := `
		INSERT INTO similarweb_stats (domain, data, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (domain) DO UPDATE
		SET data = EXCLUDED.data,
		    created_at = EXCLUDED.created_at`

	if _, err := r.db.ExecContext(ctx, query, domain, text, timestamp()); err != nil {
		return &StoreError{Op: "upsert traffic", Err: err}
	}

	return nil
}

// UpdateData overwrites data for an existing domain only
func (r *postgresTrafficRepo) UpdateData(ctx context.Context, domain string, data json.RawMessage) (bool, error) {
	text, err := encodeData(data)
	if err != nil {
		return false, &StoreError{Op: "update traffic", Err: err}
	}

	query := `
		UPDATE similarweb_stats
		SET data = $1, created_at = $2
		WHERE domain = $3`

	result, err := r.db.ExecContext(ctx, query, text, timestamp(), domain)
	if err != nil {
		return false, &StoreError{Op: "update traffic", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, &StoreError{Op: "update traffic", Err: err}
	}

	return rowsAffected > 0, nil
}

// encodeData compacts data into its stored text form.
func encodeData(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "null", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return "", fmt.Errorf("failed to serialize data: %w", err)
	}
	return buf.String(), nil
}
