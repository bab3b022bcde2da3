package migration

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/ibis1225/pet-ai/internal/shared/config"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

//go:embed scripts
var embeddedScripts embed.FS

// SourceDir is where new migration files are written, relative to the
// repository root.
const SourceDir = "internal/infrastructure/migration/scripts"

// Migrator applies the SQL scripts of one database driver with goose.
type Migrator struct {
	driver  string
	dialect goose.Dialect
	scripts fs.FS
	logger  logger.Interface
}

func NewMigrator(driver string) (*Migrator, error) {
	driver = strings.ToLower(driver)

	var dialect goose.Dialect
	switch driver {
	case config.DriverMySQL:
		dialect = goose.DialectMySQL
	case config.DriverPostgres:
		dialect = goose.DialectPostgres
	case config.DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported database driver for migrations: %s", driver)
	}

	scripts, err := fs.Sub(embeddedScripts, "scripts/"+driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration scripts for %s: %w", driver, err)
	}

	return &Migrator{
		driver:  driver,
		dialect: dialect,
		scripts: scripts,
		logger:  logger.NewComponentLogger("migration.goose"),
	}, nil
}

func (m *Migrator) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	p, err := goose.NewProvider(m.dialect, sqlDB, m.scripts)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

// Migrate applies every pending migration.
func (m *Migrator) Migrate(ctx context.Context, db *gorm.DB) error {
	p, err := m.provider(db)
	if err != nil {
		return err
	}

	currentVersion, err := p.GetDBVersion(ctx)
	if err != nil {
		m.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}

	m.logger.Infow("starting goose migration",
		"driver", m.driver,
		"version", currentVersion)

	results, err := p.Up(ctx)
	if err != nil {
		m.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, r := range results {
		m.logger.Infow("migration applied",
			"version", r.Source.Version,
			"file", filepath.Base(r.Source.Path),
			"duration", r.Duration)
	}

	finalVersion, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	m.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)

	return nil
}

// MigrateDown rolls back the last steps migrations.
func (m *Migrator) MigrateDown(ctx context.Context, db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive")
	}

	p, err := m.provider(db)
	if err != nil {
		return err
	}

	m.logger.Infow("starting down migration", "steps", steps)

	for i := 0; i < steps; i++ {
		r, err := p.Down(ctx)
		if err != nil {
			m.logger.Errorw("down migration failed", "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		m.logger.Infow("migration rolled back",
			"version", r.Source.Version,
			"file", filepath.Base(r.Source.Path))
	}

	m.logger.Infow("down migration completed successfully")
	return nil
}

func (m *Migrator) GetVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	p, err := m.provider(db)
	if err != nil {
		return 0, err
	}

	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// MigrationStatus describes one script and whether it has been applied.
type MigrationStatus struct {
	Version int64
	File    string
	Applied bool
}

func (m *Migrator) Status(ctx context.Context, db *gorm.DB) ([]MigrationStatus, error) {
	p, err := m.provider(db)
	if err != nil {
		return nil, err
	}

	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			File:    filepath.Base(s.Source.Path),
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

// Create writes an empty sequential SQL migration for driver under
// baseDir. The file is embedded on the next build.
func Create(baseDir, driver, name string) error {
	dir := filepath.Join(baseDir, strings.ToLower(driver))

	goose.SetSequential(true)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	logger.NewComponentLogger("migration.goose").Infow("migration created successfully",
		"name", name,
		"dir", dir)
	return nil
}
