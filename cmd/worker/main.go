package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mesapos/api/internal/config"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"github.com/mesapos/api/internal/events"
	"github.com/mesapos/api/internal/logger"
	"github.com/mesapos/api/internal/service"
	"go.uber.org/zap"
)

// worker consumes order.sale messages and posts auto_sale movements.
func main() {
	_ = godotenv.Load()
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

	rabbit, err := events.Dial(ctx, cfg.RabbitMQ, appLogger.Named("rabbitmq"))
	if err != nil {
		appLogger.Fatal("could not connect to rabbitmq", zap.Error(err))
	}
	defer rabbit.Close()

	// Low-stock alerts raised by sales go back out on the exchange.
	publisher := events.NewPublisher(rabbit, appLogger.Named("publisher"))

	queries := database.New(pool)
	inventory := service.NewInventoryService(pool, queries,
		func(db database.DBTX) service.InventoryStore { return database.New(db) },
		nil, publisher, appLogger.Named("inventory"))

	consumer := events.NewSaleConsumer(inventory, appLogger.Named("sale"))
	if err := rabbit.Consume(ctx, cfg.RabbitMQ.SaleQueue, enum.EventOrderSale, consumer.Handle); err != nil {
		appLogger.Fatal("sale consumer stopped", zap.Error(err))
	}
	appLogger.Info("worker stopped")
}
