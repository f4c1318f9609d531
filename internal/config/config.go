package config

import (
	"fmt"
	"os"
	"swiss-tournament/internal/swiss"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver        string
	DBPath          string
	DatabaseURL     string
	ServerPort      string
	LogLevel        string
	PairingStrategy swiss.Strategy
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	strategy, err := swiss.ParseStrategy(getEnv("PAIRING_STRATEGY", string(swiss.StrategyGreedy)))
	if err != nil {
		return nil, fmt.Errorf("invalid PAIRING_STRATEGY: %w", err)
	}

	cfg := &Config{
		DBDriver:        getEnv("DB_DRIVER", DriverSQLite),
		DBPath:          getEnv("DB_PATH", "tournament.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		PairingStrategy: strategy,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_driver", cfg.DBDriver).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("pairing_strategy", string(cfg.PairingStrategy)).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
