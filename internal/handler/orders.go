package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/service"
	"go.uber.org/zap"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*database.Order, error)
	TransitionStatus(ctx context.Context, req service.TransitionRequest) (*database.Order, error)
	AvailableTransitions(ctx context.Context, businessID, orderID uuid.UUID) (*service.TransitionOptions, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc OrderServicer
	log *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /businesses/{bid}/orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Get("/{id}/transitions", h.Transitions)
}

type orderResponse struct {
	ID            uuid.UUID `json:"id"`
	BusinessID    uuid.UUID `json:"business_id"`
	Status        string    `json:"status"`
	OperationMode string    `json:"operation_mode"`
	CancelReason  *string   `json:"cancel_reason"`
	CreatedBy     uuid.UUID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		BusinessID:    o.BusinessID,
		Status:        string(o.Status),
		OperationMode: string(o.OperationMode),
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.CancelReason.Valid {
		resp.CancelReason = &o.CancelReason.String
	}
	return resp
}

// Create handles POST /businesses/{bid}/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		BusinessID:  businessID,
		ActorUserID: userID,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*order))
}

// UpdateStatus handles PATCH /businesses/{bid}/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	orderID, ok := urlUUID(w, r, "id", "order ID")
	if !ok {
		return
	}
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "status is required"})
		return
	}

	order, err := h.svc.TransitionStatus(r.Context(), service.TransitionRequest{
		OrderID:     orderID,
		BusinessID:  businessID,
		ActorUserID: userID,
		To:          database.OrderStatus(req.Status),
		Reason:      req.Reason,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// Transitions handles GET /businesses/{bid}/orders/{id}/transitions.
func (h *OrderHandler) Transitions(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	orderID, ok := urlUUID(w, r, "id", "order ID")
	if !ok {
		return
	}

	opts, err := h.svc.AvailableTransitions(r.Context(), businessID, orderID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
