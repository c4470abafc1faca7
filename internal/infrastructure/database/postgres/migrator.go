package postgres

import (
	stderrors "errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx migration driver
	_ "github.com/golang-migrate/migrate/v4/source/file"     // file source driver

	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Schema migrations
// ─────────────────────────────────────────────────────────────────────────────

// RunMigrations applies all pending migrations from the given directory.
// Called during startup; a schema that is already current is not an error.
func RunMigrations(dbURL, migrationsPath string) error {
	m, err := newMigrate(dbURL, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations")
	}
	return nil
}

// RollbackMigrations rolls the schema back by the given number of steps.
// Development and test use only.
func RollbackMigrations(dbURL, migrationsPath string, steps int) error {
	if steps <= 0 {
		return errors.Validation("steps must be > 0")
	}
	m, err := newMigrate(dbURL, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeDatabaseError, "no migrations to roll back")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to roll back migrations")
	}
	return nil
}

// MigrationStatus reports the applied version and whether a failed migration
// left the schema dirty.
func MigrationStatus(dbURL, migrationsPath string) (version uint, dirty bool, err error) {
	m, err := newMigrate(dbURL, migrationsPath)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read migration version")
	}
	return version, dirty, nil
}

func newMigrate(dbURL, migrationsPath string) (*migrate.Migrate, error) {
	if !strings.HasPrefix(migrationsPath, "file://") {
		migrationsPath = "file://" + migrationsPath
	}
	m, err := migrate.New(migrationsPath, migrateURL(dbURL))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	return m, nil
}

// migrateURL rewrites a postgres:// DSN onto the pgx/v5 migration driver.
func migrateURL(dbURL string) string {
	if strings.HasPrefix(dbURL, "postgres://") {
		return "pgx5://" + strings.TrimPrefix(dbURL, "postgres://")
	}
	return dbURL
}
