package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/config"
)

const migrationsTable = "tracker_schema_migrations"

// RunMigrations brings the task store schema up to date when RUN_MIGRATIONS is set.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	return Migrate(cfg.Database, cfg.Migrations.Path, logger)
}

// Migrate applies every pending migration found under dir.
func Migrate(db config.DatabaseConfig, dir string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", db.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return err
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(dir))
	m, err := migrate.NewWithDatabaseInstance(sourceURL, db.Name, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	// A dirty schema needs a manual `migrate force`; replaying on top of it
	// would only compound the damage.
	if version, dirty, err := m.Version(); err == nil && dirty {
		return domain.NewError(domain.ErrCodeConfiguration, fmt.Sprintf("schema version %d is dirty", version))
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return domain.WrapError(domain.ErrCodeConfiguration, "schema migration failed", err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Info("schema up to date", zap.Uint("version", version), zap.String("source", sourceURL))
	return nil
}
