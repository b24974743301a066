package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandesh691/agribid-sub001/internal/config"
	"github.com/sandesh691/agribid-sub001/internal/crop"
	"github.com/sandesh691/agribid-sub001/internal/database"
	"github.com/sandesh691/agribid-sub001/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.New(cfg.Observability)
	defer loggerService.Shutdown()
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	log.Info().Msg("Starting Bidding Window Sweeper...")

	db, err := database.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	sweeper := crop.NewSweeper(db.Pool, &log, cfg.Sweeper.Interval, cfg.Sweeper.BatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sweeper.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Sweeper stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down Sweeper...")
	cancel()

	log.Info().Msg("Sweeper shutdown complete")
}
