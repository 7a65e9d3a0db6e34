package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/service"
	"go.uber.org/zap"
)

// BusinessServicer is satisfied by *service.BusinessService.
type BusinessServicer interface {
	CreateBusinessAndOwnerMembership(ctx context.Context, req service.CreateBusinessRequest) (*service.ProvisionResult, error)
}

// LimitChecker is satisfied by *service.QuotaService.
type LimitChecker interface {
	CheckLimit(ctx context.Context, businessID uuid.UUID, limitType string) (*service.LimitCheck, error)
}

// BusinessHandler handles provisioning and the per-business read endpoints.
type BusinessHandler struct {
	svc           BusinessServicer
	limits        LimitChecker
	subscriptions service.SubscriptionReader
	log           *zap.Logger
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(svc BusinessServicer, limits LimitChecker, subscriptions service.SubscriptionReader, log *zap.Logger) *BusinessHandler {
	return &BusinessHandler{svc: svc, limits: limits, subscriptions: subscriptions, log: log}
}

// RegisterRoutes registers POST /businesses. Mounted at /businesses.
func (h *BusinessHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
}

// RegisterScopedRoutes registers reads under /businesses/{bid}.
func (h *BusinessHandler) RegisterScopedRoutes(r chi.Router) {
	r.Get("/limits/{type}", h.CheckLimit)
	r.Get("/subscription", h.Subscription)
}

type createBusinessRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	OperationMode string `json:"operation_mode"`
}

// Create handles POST /businesses.
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req createBusinessRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.svc.CreateBusinessAndOwnerMembership(r.Context(), service.CreateBusinessRequest{
		ActorUserID:   userID,
		Name:          req.Name,
		Type:          req.Type,
		OperationMode: database.OperationMode(req.OperationMode),
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, provisionStatus(result), result)
}

func provisionStatus(result *service.ProvisionResult) int {
	if result.Success {
		return http.StatusCreated
	}
	switch result.Err() {
	case service.ErrAccountBlocked:
		return http.StatusForbidden
	case service.ErrAlreadyHasBusiness:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// CheckLimit handles GET /businesses/{bid}/limits/{type}.
func (h *BusinessHandler) CheckLimit(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}

	check, err := h.limits.CheckLimit(r.Context(), businessID, chi.URLParam(r, "type"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// Subscription handles GET /businesses/{bid}/subscription.
func (h *BusinessHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}

	st, err := h.subscriptions.GetSubscriptionStatus(r.Context(), businessID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
