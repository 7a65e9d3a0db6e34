package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mesapos/api/internal/auth"
	"github.com/mesapos/api/internal/config"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"github.com/mesapos/api/internal/logger"
	"github.com/mesapos/api/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedItem struct {
	name     string
	unit     string
	stockMin string
	purchase string
}

var demoItems = []seedItem{
	{"Coffee beans", "kg", "2", "10"},
	{"Fresh milk", "l", "5", "24"},
	{"Palm sugar", "kg", "1", "3"},
}

func main() {
	ownerFlag := flag.String("owner", "", "Owner user ID (random when empty)")
	name := flag.String("name", "", "Business name")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if *ownerFlag == "" {
		*ownerFlag = os.Getenv("SEED_OWNER_ID")
	}
	if *name == "" {
		*name = "Kopi Mesa"
	}

	ownerID := uuid.New()
	if *ownerFlag != "" {
		id, err := uuid.Parse(*ownerFlag)
		if err != nil {
			log.Fatalf("invalid owner ID %q: %v", *ownerFlag, err)
		}
		ownerID = id
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLogger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer pool.Close()

	queries := database.New(pool)
	provisioner := service.NewBusinessService(pool, queries,
		func(db database.DBTX) service.BusinessStore { return database.New(db) },
		queries, appLogger)

	result, err := provisioner.CreateBusinessAndOwnerMembership(ctx, service.CreateBusinessRequest{
		ActorUserID:   ownerID,
		Name:          *name,
		Type:          "cafe",
		OperationMode: database.OperationModeCounter,
	})
	if err != nil {
		appLogger.Fatal("provision business", zap.Error(err))
	}
	if !result.Success {
		if result.Code == enum.CodeAlreadyHasBusiness {
			appLogger.Info("owner already has a business, skipping seed", zap.String("owner_id", ownerID.String()))
			printToken(cfg, ownerID, uuid.Nil)
			return
		}
		appLogger.Fatal("provisioning rejected", zap.String("code", result.Code), zap.String("message", result.Message))
	}
	businessID := result.BusinessID

	_, err = pool.Exec(ctx,
		`INSERT INTO business_subscriptions (business_id, status) VALUES ($1, 'trial') ON CONFLICT (business_id) DO NOTHING`,
		businessID)
	if err != nil {
		appLogger.Fatal("seed subscription", zap.Error(err))
	}

	inventory := service.NewInventoryService(pool, queries,
		func(db database.DBTX) service.InventoryStore { return database.New(db) },
		nil, nil, appLogger)

	for _, it := range demoItems {
		item, err := inventory.CreateItem(ctx, service.CreateItemRequest{
			BusinessID:  businessID,
			ActorUserID: ownerID,
			Name:        it.name,
			Unit:        it.unit,
			StockMin:    decimal.RequireFromString(it.stockMin),
		})
		if err != nil {
			appLogger.Fatal("create item", zap.String("name", it.name), zap.Error(err))
		}
		res, err := inventory.ApplyMovement(ctx, service.ApplyMovementRequest{
			ItemID:      item.ID,
			BusinessID:  businessID,
			Type:        database.MovementTypePurchase,
			Delta:       decimal.RequireFromString(it.purchase),
			Reason:      "opening stock",
			ActorUserID: ownerID,
		})
		if err != nil {
			appLogger.Fatal("opening stock", zap.String("name", it.name), zap.Error(err))
		}
		appLogger.Info("seeded item",
			zap.String("item_id", item.ID.String()),
			zap.String("name", it.name),
			zap.String("stock", res.NewStock.String()),
		)
	}

	printToken(cfg, ownerID, businessID)
}

func printToken(cfg *config.Config, ownerID, businessID uuid.UUID) {
	token, err := auth.GenerateToken(cfg.Auth.JWTSecret, ownerID, 24*time.Hour)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Printf("Owner ID:    %s\n", ownerID)
	if businessID != uuid.Nil {
		fmt.Printf("Business ID: %s\n", businessID)
	}
	fmt.Printf("Dev token:   %s\n", token)
}
