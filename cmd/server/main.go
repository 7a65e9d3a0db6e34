package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mesapos/api/internal/config"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/events"
	"github.com/mesapos/api/internal/logger"
	"github.com/mesapos/api/internal/router"
	"github.com/mesapos/api/internal/service"
	"github.com/mesapos/api/internal/ws"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.Load()

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLogger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer pool.Close()
	appLogger.Info("connected to database")

	hub := ws.NewHub(appLogger.Named("ws"))
	go hub.Run(ctx)

	notifiers := service.Notifiers{hub}
	rabbit, err := events.Dial(ctx, cfg.RabbitMQ, appLogger.Named("rabbitmq"))
	switch {
	case errors.Is(err, events.ErrDisabled):
		appLogger.Info("rabbitmq not configured, events stay in-process")
	case err != nil:
		appLogger.Warn("rabbitmq unavailable, events stay in-process", zap.Error(err))
	default:
		defer rabbit.Close()
		notifiers = append(notifiers, events.NewPublisher(rabbit, appLogger.Named("publisher")))
	}

	services := router.NewServices(cfg, pool, notifiers, appLogger)
	r := router.New(cfg, pool, services, hub, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		appLogger.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
