package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mesapos/api/internal/config"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/handler"
	mw "github.com/mesapos/api/internal/middleware"
	"github.com/mesapos/api/internal/service"
	"github.com/mesapos/api/internal/ws"
	"go.uber.org/zap"
)

// Services bundles the application services the HTTP surface calls.
type Services struct {
	Business      *service.BusinessService
	Quota         *service.QuotaService
	Inventory     *service.InventoryService
	Orders        *service.OrderService
	Catalog       *service.CatalogService
	Members       *service.MembershipService
	Subscriptions service.SubscriptionReader
}

// NewServices wires every service against the pool. notifier receives
// committed order and stock events.
func NewServices(cfg *config.Config, pool *pgxpool.Pool, notifier service.Notifier, log *zap.Logger) *Services {
	queries := database.New(pool)
	quota := service.NewQuotaService(queries, cfg.Location(), log.Named("quota"))

	return &Services{
		Business: service.NewBusinessService(pool, queries,
			func(db database.DBTX) service.BusinessStore { return database.New(db) },
			queries, log.Named("business")),
		Quota: quota,
		Inventory: service.NewInventoryService(pool, queries,
			func(db database.DBTX) service.InventoryStore { return database.New(db) },
			nil, notifier, log.Named("inventory")),
		Orders: service.NewOrderService(pool, queries,
			func(db database.DBTX) service.OrderStore { return database.New(db) },
			quota, notifier, log.Named("orders")),
		Catalog:       service.NewCatalogService(queries, quota),
		Members:       service.NewMembershipService(queries, quota),
		Subscriptions: service.DBSubscriptionReader{Store: queries},
	}
}

// roleLookup reads the actor's active role for RequireMember.
func roleLookup(queries *database.Queries) mw.RoleLookup {
	return func(ctx context.Context, businessID, userID uuid.UUID) (string, error) {
		role, err := queries.GetActiveMembershipRole(ctx, database.GetActiveMembershipRoleParams{
			BusinessID: businessID,
			UserID:     userID,
		})
		return string(role), err
	}
}

func memberCheck(lookup mw.RoleLookup) ws.MemberCheck {
	return func(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
		_, err := lookup(ctx, businessID, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return err == nil, err
	}
}

// New creates a Chi router with all application routes wired up.
// Every /businesses/{bid} route requires an active membership in that business.
func New(cfg *config.Config, pool *pgxpool.Pool, svc *Services, hub *ws.Hub, log *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	lookup := roleLookup(database.New(pool))

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/businesses/{bid}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.Auth.JWTSecret, memberCheck(lookup), w, r)
	})

	businessHandler := handler.NewBusinessHandler(svc.Business, svc.Quota, svc.Subscriptions, log)
	inventoryHandler := handler.NewInventoryHandler(svc.Inventory, log)
	orderHandler := handler.NewOrderHandler(svc.Orders, log)
	productHandler := handler.NewProductHandler(svc.Catalog, log)
	memberHandler := handler.NewMemberHandler(svc.Members, log)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.Auth.JWTSecret))

		r.Route("/businesses", func(r chi.Router) {
			businessHandler.RegisterRoutes(r)

			r.Route("/{bid}", func(r chi.Router) {
				r.Use(mw.RequireMember(lookup))

				businessHandler.RegisterScopedRoutes(r)
				r.Route("/inventory/items", inventoryHandler.RegisterRoutes)
				r.Route("/orders", orderHandler.RegisterRoutes)
				r.Route("/products", productHandler.RegisterRoutes)
				r.Route("/members", func(r chi.Router) {
					r.Use(mw.RequireRole(string(database.MemberRoleOwner), string(database.MemberRoleAdmin)))
					memberHandler.RegisterRoutes(r)
				})
			})
		})
	})

	log.Info("router initialized")
	return r
}
