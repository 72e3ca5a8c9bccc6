package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jobzee/jobzee/internal/config"
	"github.com/jobzee/jobzee/internal/models"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// liveApplicationIndex allows one non-withdrawn application per user and job.
// Postgres and SQLite both accept the partial form.
const liveApplicationIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_live
	ON applications (user_id, job_id)
	WHERE status <> 'withdrawn' AND deleted_at IS NULL`

// Migrate applies the GORM auto-migrations for every model, plus the
// indexes GORM tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Candidate{},
		&models.Job{},
		&models.Application{},
	); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	if err := db.Exec(liveApplicationIndex).Error; err != nil {
		return fmt.Errorf("create live application index: %w", err)
	}
	return nil
}

// MigrateSQL runs the versioned SQL migrations embedded in the binary
// against a Postgres URL.
func MigrateSQL(databaseURL string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sql migrations failed: %w", err)
	}
	return nil
}

// Run migrates the schema: versioned SQL on Postgres when enabled,
// AutoMigrate otherwise.
func Run(db *gorm.DB, cfg config.DatabaseConfig) error {
	if cfg.Driver != "sqlite" && cfg.SQLMigrations {
		return MigrateSQL(cfg.URL())
	}
	return Migrate(db)
}
