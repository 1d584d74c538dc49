package main

import (
	"flag"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
)

func main() {
	reset := flag.Bool("reset", false, "Drop all tables before migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	db, err := database.Open(cfg.Database, cfg.Env)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if *reset {
		if cfg.Env.IsProduction() {
			logging.Fatal().Msg("refusing to reset a production database")
		}
		tables := models.All()
		// Drop dependents first.
		for i := len(tables) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(tables[i]); err != nil {
				logging.Fatal().Err(err).Msgf("failed to drop %T", tables[i])
			}
		}
		logging.Info().Int("tables", len(tables)).Msg("dropped tables")
	}

	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("migration failed")
	}
	logging.Info().Msg("migrations applied")
}
