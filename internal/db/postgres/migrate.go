package postgres

import (
	"Domainscope/internal/db/migrations"
	"context"
	"database/sql"
	"log"

	"github.com/pressly/goose/v3"
)

// Migrate creates the domain_stats and similarweb_stats tables if they are
// missing. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return &StoreError{Op: "set goose dialect", Err: err}
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return &StoreError{Op: "migrate", Err: err}
	}

	log.Println("Migrations completed successfully")
	return nil
}
