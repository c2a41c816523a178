package postgres

import (
	"database/sql"
	"fmt"

	"ontologykg/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration embedded in the
// migrations package; infrastructure/di runs it when the worker's
// container is built.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
