package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	auditdomain "github.com/smithline/atelier/internal/audit/domain"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
	identitydomain "github.com/smithline/atelier/internal/identity/domain"
	"gorm.io/gorm"
)

// RunMigrations applies the versioned schema against a Postgres database.
// All ledger tables are created automatically on startup so a fresh deploy
// is usable without manual schema steps.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate builds the schema from the gorm models. Used for the non
// Postgres dialects where the versioned SQL does not apply.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	return db.AutoMigrate(
		&identitydomain.User{},
		&catalogdomain.CreatorProfile{},
		&catalogdomain.Design{},
		&earningdomain.Earning{},
		&auditdomain.AuditLog{},
	)
}
