package fx

import (
	"database/sql"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/database"
	"swiss-tournament/internal/db"
	"swiss-tournament/internal/logger"
	"swiss-tournament/internal/repository"
	"swiss-tournament/internal/server"
	"swiss-tournament/internal/service"
	"swiss-tournament/internal/swiss"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvidePairer(cfg *config.Config) *swiss.Pairer {
	return swiss.NewPairer(cfg.PairingStrategy)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewTournamentRepository),
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMatchRepository),
	// engine
	fx.Provide(ProvidePairer),
	// svc
	fx.Provide(service.NewTournamentService),
	// server
	fx.Provide(server.NewTournamentServer),
)
