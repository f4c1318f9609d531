package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/constants"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("driver", cfg.DBDriver).Str("path", cfg.DBPath).Msg("connecting to database")

	db, err := sql.Open(cfg.DBDriver, dataSourceName(cfg))
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	if err := ping(db); err != nil {
		logger.Error().Err(err).Msg("failed to ping database")
		db.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", constants.DatabaseTimeout, err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		if err := optimizeSQLite(db, logger); err != nil {
			logger.Error().Err(err).Msg("failed to optimize SQLite")
			db.Close()
			return nil, fmt.Errorf("failed to optimize SQLite: %w", err)
		}
	}
	if err := runMigrations(db, cfg.DBDriver, logger); err != nil {
		logger.Error().Err(err).Msg("failed to run migrations")
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database connection established")
	return db, nil
}

// dataSourceName returns the DSN for the configured driver. SQLite pragmas
// that must hold on every pooled connection go into the DSN.
func dataSourceName(cfg *config.Config) string {
	if cfg.DBDriver == config.DriverPostgres {
		return cfg.DatabaseURL
	}
	return cfg.DBPath + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

func runMigrations(db *sql.DB, driver string, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	dir := "migrations/" + driver
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	logger.Info().Str("dir", dir).Int64("version", version).Msg("migrations completed successfully")
	return nil
}

func optimizeSQLite(sqlDB *sql.DB, logger zerolog.Logger) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"synchronous", "NORMAL"},
		{"cache_size", "-64000"},
		{"temp_store", "MEMORY"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
		if _, err := sqlDB.Exec(query); err != nil {
			logger.Warn().
				Err(err).
				Str("pragma", pragma.name).
				Str("value", pragma.value).
				Msg("failed to set pragma")
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
		logger.Debug().
			Str("pragma", pragma.name).
			Str("value", pragma.value).
			Msg("SQLite pragma set")
	}

	return nil
}
