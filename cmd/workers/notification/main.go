package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandesh691/agribid-sub001/internal/config"
	"github.com/sandesh691/agribid-sub001/internal/database"
	"github.com/sandesh691/agribid-sub001/internal/kafka"
	"github.com/sandesh691/agribid-sub001/internal/logger"
	"github.com/sandesh691/agribid-sub001/internal/notification"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.New(cfg.Observability)
	defer loggerService.Shutdown()
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	log.Info().Msg("Starting Notification Worker...")

	db, err := database.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	consumer, err := kafka.NewConsumer(
		kafka.DefaultConfig(cfg.Kafka.Brokers),
		kafka.GroupNotificationWorker,
		kafka.TopicListingPublished,
		kafka.TopicBidPlaced,
		kafka.TopicBidAccepted,
		kafka.TopicOrderPaid,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize kafka consumer")
	}

	repo := notification.NewNotificationRepository(db.Pool)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Run(ctx, notificationHandler(repo, &log)); err != nil {
			log.Error().Err(err).Msg("Notification worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down Notification Worker...")
	cancel()

	log.Info().Msg("Notification Worker shutdown complete")
}
