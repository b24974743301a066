package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandesh691/agribid-sub001/internal/admin"
	"github.com/sandesh691/agribid-sub001/internal/auth"
	"github.com/sandesh691/agribid-sub001/internal/bid"
	"github.com/sandesh691/agribid-sub001/internal/config"
	"github.com/sandesh691/agribid-sub001/internal/crop"
	"github.com/sandesh691/agribid-sub001/internal/database"
	"github.com/sandesh691/agribid-sub001/internal/logger"
	"github.com/sandesh691/agribid-sub001/internal/notification"
	"github.com/sandesh691/agribid-sub001/internal/order"
	"github.com/sandesh691/agribid-sub001/internal/redis"
	"github.com/sandesh691/agribid-sub001/internal/report"
	"github.com/sandesh691/agribid-sub001/internal/router"
	"github.com/sandesh691/agribid-sub001/internal/server"
	"github.com/sandesh691/agribid-sub001/internal/user"
	"github.com/sandesh691/agribid-sub001/internal/wallet"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.New(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	db, err := database.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	redisClient, err := redis.New(&log, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize redis client")
	}

	srv, err := server.NewServer(cfg, &log, loggerService, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	userRepo := user.NewUserRepository(db.Pool)
	cropRepo := crop.NewCropRepository(db.Pool)
	bidRepo := bid.NewBidRepository(db.Pool)
	orderRepo := order.NewOrderRepository(db.Pool)
	walletRepo := wallet.NewWalletRepository(db.Pool)
	reportRepo := report.NewReportRepository(db.Pool)
	notificationRepo := notification.NewNotificationRepository(db.Pool)
	adminRepo := admin.NewAdminRepository(db.Pool, reportRepo)

	authService := auth.NewAuthService(userRepo, &cfg.Auth)
	cropService := crop.NewCropService(cropRepo, bidRepo)
	bidService := bid.NewBidService(bidRepo, cropRepo)
	orderService := order.NewOrderService(orderRepo, redisClient, log)
	walletService := wallet.NewWalletService(walletRepo)
	reportService := report.NewReportService(reportRepo)
	adminService := admin.NewAdminService(adminRepo, reportRepo)

	handlers := &router.Handlers{
		Auth:         auth.NewAuthHandler(authService, &cfg.Auth),
		Crop:         crop.NewCropHandler(cropService),
		Bid:          bid.NewBidHandler(bidService),
		Order:        order.NewOrderHandler(orderService),
		Wallet:       wallet.NewWalletHandler(walletService),
		Report:       report.NewReportHandler(reportService),
		Notification: notification.NewNotificationHandler(notificationRepo),
		Admin:        admin.NewAdminHandler(adminService),
	}

	r := router.NewRouter(srv, redisClient, handlers)

	srv.SetupHTTPServer(r)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	db.Close()
	log.Info().Msg("server stopped")
}
