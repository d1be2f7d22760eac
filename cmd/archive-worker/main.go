package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/logger"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/queue"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/storage"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	if !cfg.Archive.Enabled {
		log.Fatal().Msg("Archiving is disabled in configuration")
	}

	log.Info().Str("version", cfg.App.Version).Msg("Starting archive worker")

	redisClient, err := queue.NewClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	archives, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to archive storage")
	}

	consumer := queue.NewConsumer(redisClient, cfg)
	archiveWorker := worker.NewArchiveWorker(cfg, archives, consumer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := archiveWorker.Start(ctx); err != nil && err != context.Canceled {
			log.Fatal().Err(err).Msg("Archive worker failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down archive worker...")

	cancel()
	archiveWorker.Stop()

	log.Info().Msg("Archive worker exited")
}
