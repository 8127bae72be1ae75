package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samudaya/community-events-go/config"
	"github.com/samudaya/community-events-go/middleware"
	"github.com/samudaya/community-events-go/routes"
	"github.com/samudaya/community-events-go/services"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger()

	client, err := config.ConnectMongo(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	db := client.Database(cfg.DBName)

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repos := routes.NewRepos(indexCtx, db, logger)
	cancel()

	emailService := services.NewEmailService(cfg, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(routes.SetupCORS())

	routes.SetupRoutes(router, repos, emailService, cfg, logger)

	logger.Info().Str("port", cfg.Port).Msg("starting community events API")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
