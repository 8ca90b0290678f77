package migrations

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Source returns the embedded migration files as a golang-migrate source.
func Source() (source.Driver, error) {
	sourceDriver, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	return sourceDriver, nil
}

func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	sourceDriver, err := Source()
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}
