package main

import (
	"context"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.Info().Str("env", string(cfg.Env)).Msg("starting foodgram api")

	ctx := context.Background()

	db, err := database.Open(cfg.Database, cfg.Env)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logging.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		// Rate limiting degrades to a passthrough without Redis.
		logging.Warn().Err(err).Msg("redis unavailable, continuing without rate limiting")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	avatars, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize avatar storage")
	}

	relations := relation.NewManager(db)
	users := service.NewUserService(db, relations, avatars)

	handler := router.SetupRouter(cfg, router.Services{
		DB:            db,
		Redis:         redisClient,
		Relations:     relations,
		Auth:          service.NewAuthService(db, cfg.JWT),
		Users:         users,
		Recipes:       service.NewRecipeService(db, relations, avatars, cfg.Pagination),
		Ingredients:   service.NewIngredientService(db),
		Subscriptions: service.NewSubscriptionService(db, relations, users, avatars, cfg.Pagination),
		Shopping:      service.NewShoppingListService(db),
	})

	if err := server.New(cfg.Server, handler).Run(ctx); err != nil {
		logging.Error().Err(err).Msg("server error")
	}
}
