package database

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio/internal/config"
	"portfolio/internal/middleware"
	"portfolio/internal/models"

	"gorm.io/gorm"
)

// SchemaStatus describes the state of the relational post table.
type SchemaStatus struct {
	Driver      string
	Environment string
	Table       string
	TableExists bool
	Columns     []string
	WillMigrate bool
}

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.PostRecord{},
	}
}

// autoMigrateOnStart reports whether the server migrates at startup.
// Production schemas are only changed through cmd/migrate.
func autoMigrateOnStart(cfg *config.Config) bool {
	return !cfg.IsProduction()
}

// EnsureSchema creates the prod/dev schema (a database on MySQL) when missing.
func EnsureSchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	var stmt string
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		stmt = fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.DBSchema)
	case config.DriverPostgres:
		stmt = fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, cfg.DBSchema)
	default:
		return nil
	}
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("create schema %s: %w", cfg.DBSchema, err)
	}
	return nil
}

// Migrate creates or updates the post table.
func Migrate(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if err := EnsureSchema(ctx, db, cfg); err != nil {
		return err
	}
	table := PostTable(cfg)
	middleware.Logger.Info("Running GORM AutoMigrate", slog.String("table", table), slog.String("env", cfg.Env))
	if err := db.WithContext(ctx).Table(table).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate %s: %w", table, err)
	}
	return nil
}

// ApplySchema migrates at startup outside production.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if !autoMigrateOnStart(cfg) {
		return nil
	}
	return Migrate(ctx, db, cfg)
}

// GetSchemaStatus inspects the post table without changing it.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	table := PostTable(cfg)
	status := &SchemaStatus{
		Driver:      cfg.StoreDriver,
		Environment: cfg.Env,
		Table:       table,
		WillMigrate: autoMigrateOnStart(cfg),
	}

	m := db.WithContext(ctx).Table(table).Migrator()
	status.TableExists = m.HasTable(table)
	if !status.TableExists {
		return status, nil
	}

	columns, err := m.ColumnTypes(&models.PostRecord{})
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	for _, c := range columns {
		status.Columns = append(status.Columns, c.Name())
	}
	return status, nil
}
