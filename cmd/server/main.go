package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"covercart-backend/config"
	"covercart-backend/internal/courier"
	"covercart-backend/internal/delivery"
	"covercart-backend/internal/metrics"
	"covercart-backend/internal/repository"
	"covercart-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL %q, using %s", cfg.LogLevel, level)
	}
	logger.SetLevel(level)
	logger.Info("Starting covercart backend...")

	client, err := repository.Connect(cfg.MongoURI)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Errorf("Failed to disconnect from MongoDB: %v", err)
		}
	}()
	db := client.Database(cfg.MongoDatabase)
	logger.Infof("Connected to MongoDB database %q", cfg.MongoDatabase)

	coverStore := repository.NewCoverStore(db)
	orderStore := repository.NewOrderStore(db)
	summaryStore := repository.NewSummaryStore(db)

	courierClient := courier.NewClient(cfg.CourierBaseURL, cfg.CourierAPIKey, cfg.CourierSecretKey, cfg.CourierTimeout, logger)
	orderMetrics := metrics.NewOrderMetrics()
	orderService := service.NewOrderService(coverStore, orderStore, summaryStore, courierClient, orderMetrics, logger)

	authHandler := delivery.NewAuthHandler([]byte(cfg.JWTSecret), cfg.AdminUsername, cfg.AdminPasswordHash, logger)
	coverHandler := delivery.NewCoverHandler(coverStore, logger)
	orderHandler := delivery.NewOrderHandler(orderService, courierClient, logger)

	router := delivery.NewRouter(delivery.RouterConfig{
		JWTSecret:    []byte(cfg.JWTSecret),
		AllowOrigins: cfg.AllowOrigins,
	}, authHandler, coverHandler, orderHandler)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Listening on %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
