package postgres

import (
	"Domainscope/internal/core/authority"
	"context"
	"database/sql"
	"errors"
)

type postgresAuthorityRepo struct {
	db *sql.DB
}

// NewAuthorityRepository creates a new PostgreSQL DA/PA repository
func NewAuthorityRepository(db *sql.DB) authority.Repository {
	if db == nil {
		panic("postgres: db cannot be nil")
	}
	return &postgresAuthorityRepo{db: db}
}

// Get retrieves the stored scores for url
func (r *postgresAuthorityRepo) Get(ctx context.Context, url string) (*authority.Record, error) {
	query := `
		SELECT url, da, pa, created_at
		FROM domain_stats WHERE url = $1`

	var rec authority.Record
	var da, pa sql.NullFloat64
	var createdAt sql.NullString

	err := r.db.QueryRowContext(ctx, query, url).Scan(&rec.URL, &da, &pa, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, authority.ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get authority", Err: err}
	}

	if da.Valid {
		rec.DomainAuthority = &da.Float64
	}
	if pa.Valid {
		rec.PageAuthority = &pa.Float64
	}
	rec.CreatedAt = createdAt.String

	return &rec, nil
}

// Upsert inserts or replaces the scores for url
func (r *postgresAuthorityRepo) Upsert(ctx context.Context, url string, da, pa *float64) error {
	query := `
		INSERT INTO domain_stats (url, da, pa, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (url) DO UPDATE
		SET da = EXCLUDED.da,
		    pa = EXCLUDED.pa,
		    created_at = EXCLUDED.created_at`

	if _, err := r.db.ExecContext(ctx, query, url, da, pa, timestamp()); err != nil {
		return &StoreError{Op: "upsert authority", Err: err}
	}

	return nil
}
