package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// MaxParallelTournaments bounds how many tournaments are paired at once.
	MaxParallelTournaments = 8
)
