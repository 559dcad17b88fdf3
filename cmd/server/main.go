package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/skyline-air/reservation-service/internal/config"
	"github.com/skyline-air/reservation-service/internal/database"
	"github.com/skyline-air/reservation-service/internal/events"
	"github.com/skyline-air/reservation-service/internal/handlers"
	"github.com/skyline-air/reservation-service/internal/memstore"
	"github.com/skyline-air/reservation-service/internal/router"
	"github.com/skyline-air/reservation-service/internal/service"
	"github.com/skyline-air/reservation-service/internal/websocket"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	// Pick the store: Postgres when configured, otherwise in-memory
	// with sample flights for local development.
	var store service.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to create database pool", zap.Error(err))
		}
		defer pool.Close()

		repo := database.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to apply schema", zap.Error(err))
		}
		store = repo
		logger.Info("using postgres store")
	} else {
		mem := memstore.New()
		if _, err := mem.SeedSampleFlights(ctx); err != nil {
			logger.Fatal("failed to seed sample flights", zap.Error(err))
		}
		store = mem
		logger.Info("DATABASE_URL not set, using in-memory store with sample flights")
	}

	// Event publisher: Kafka when a broker is configured.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBroker != "" {
		kp := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		defer kp.Close()
		publisher = kp
		logger.Info("publishing reservation events",
			zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
	}

	hub := websocket.NewHub(logger)
	go hub.Run()

	reservationService := service.NewReservationService(store, logger, publisher, hub)
	h := handlers.NewHandler(reservationService)
	r := router.SetupRouter(h, hub)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
