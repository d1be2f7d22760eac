package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/api"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/logger"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/queue"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/repository"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/storage"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/store"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting grade entry API")

	// Build the tabular store and make sure the header row exists before
	// the first request arrives.
	sch := schema.New(cfg.Skills)
	tabularStore, err := store.New(cfg, sch)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open tabular store")
	}
	defer tabularStore.Close()

	if err := tabularStore.EnsureInitialized(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tabular store")
	}

	repo := repository.New(tabularStore, sch)
	validator := validation.New(sch, cfg.Validation.MaxCommentLength)

	// Archiving is optional; without it the API runs with just the store.
	var producer *queue.Producer
	var archives storage.Storage
	if cfg.Archive.Enabled {
		redisClient, err := queue.NewClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		producer = queue.NewProducer(redisClient, cfg)

		archives, err = storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to archive storage")
		}
	}

	handler := api.NewHandler(repo, validator, producer, archives, cfg)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.CORSMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())

	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
