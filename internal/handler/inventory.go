package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/service"
	"go.uber.org/zap"
)

// InventoryServicer is satisfied by *service.InventoryService.
type InventoryServicer interface {
	CreateItem(ctx context.Context, req service.CreateItemRequest) (*database.InventoryItem, error)
	ApplyMovement(ctx context.Context, req service.ApplyMovementRequest) (*service.MovementResult, error)
	ListMovements(ctx context.Context, businessID, itemID uuid.UUID) ([]database.InventoryMovement, error)
	VerifyStock(ctx context.Context, businessID, itemID uuid.UUID) (*service.StockVerification, error)
}

// InventoryHandler handles inventory item and movement endpoints.
type InventoryHandler struct {
	svc InventoryServicer
	log *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(svc InventoryServicer, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, log: log}
}

// RegisterRoutes registers inventory endpoints.
// Expected to be mounted at /businesses/{bid}/inventory/items.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateItem)
	r.Post("/{iid}/movements", h.ApplyMovement)
	r.Get("/{iid}/movements", h.ListMovements)
	r.Get("/{iid}/verify", h.VerifyStock)
}

// --- Request / Response types ---

type createItemRequest struct {
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	StockMin  string `json:"stock_min"`
	TrackMode string `json:"track_mode"`
}

type itemResponse struct {
	ID           uuid.UUID `json:"id"`
	BusinessID   uuid.UUID `json:"business_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	StockCurrent string    `json:"stock_current"`
	StockMin     string    `json:"stock_min"`
	TrackMode    string    `json:"track_mode"`
	CreatedAt    time.Time `json:"created_at"`
}

type applyMovementRequest struct {
	Type       string `json:"type"`
	Delta      string `json:"delta"`
	Reason     string `json:"reason"`
	RefOrderID string `json:"ref_order_id"`
}

type movementResponse struct {
	ID          uuid.UUID  `json:"id"`
	ItemID      uuid.UUID  `json:"item_id"`
	Type        string     `json:"type"`
	Delta       string     `json:"delta"`
	StockBefore string     `json:"stock_before"`
	StockAfter  string     `json:"stock_after"`
	Reason      string     `json:"reason"`
	ActorUserID uuid.UUID  `json:"actor_user_id"`
	RefOrderID  *uuid.UUID `json:"ref_order_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

type applyMovementResponse struct {
	NewStock string           `json:"new_stock"`
	IsLow    bool             `json:"is_low"`
	Movement movementResponse `json:"movement"`
}

type verifyResponse struct {
	ItemID     uuid.UUID `json:"item_id"`
	Stored     string    `json:"stored"`
	Replayed   string    `json:"replayed"`
	Movements  int       `json:"movements"`
	Consistent bool      `json:"consistent"`
}

const stockPlaces = 3

func toItemResponse(it database.InventoryItem) itemResponse {
	return itemResponse{
		ID:           it.ID,
		BusinessID:   it.BusinessID,
		Name:         it.Name,
		Unit:         it.Unit,
		StockCurrent: numericToString(it.StockCurrent, stockPlaces),
		StockMin:     numericToString(it.StockMin, stockPlaces),
		TrackMode:    string(it.TrackMode),
		CreatedAt:    it.CreatedAt,
	}
}

func toMovementResponse(m database.InventoryMovement) movementResponse {
	resp := movementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		Type:        string(m.Type),
		Delta:       numericToString(m.Delta, stockPlaces),
		StockBefore: numericToString(m.StockBefore, stockPlaces),
		StockAfter:  numericToString(m.StockAfter, stockPlaces),
		Reason:      m.Reason,
		ActorUserID: m.ActorUserID,
		CreatedAt:   m.CreatedAt,
	}
	if m.RefOrderID.Valid {
		ref := uuid.UUID(m.RefOrderID.Bytes)
		resp.RefOrderID = &ref
	}
	return resp
}

// --- Handlers ---

// CreateItem handles POST /businesses/{bid}/inventory/items.
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req createItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	stockMin, err := parseDecimal(req.StockMin)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid stock_min"})
		return
	}

	item, err := h.svc.CreateItem(r.Context(), service.CreateItemRequest{
		BusinessID:  businessID,
		ActorUserID: userID,
		Name:        req.Name,
		Unit:        req.Unit,
		StockMin:    stockMin,
		TrackMode:   database.TrackMode(req.TrackMode),
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(*item))
}

// ApplyMovement handles POST /businesses/{bid}/inventory/items/{iid}/movements.
func (h *InventoryHandler) ApplyMovement(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	itemID, ok := urlUUID(w, r, "iid", "item ID")
	if !ok {
		return
	}
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req applyMovementRequest
	if !decodeBody(w, r, &req) {
		return
	}
	delta, err := parseDecimal(req.Delta)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid delta"})
		return
	}

	svcReq := service.ApplyMovementRequest{
		ItemID:      itemID,
		BusinessID:  businessID,
		Type:        database.MovementType(req.Type),
		Delta:       delta,
		Reason:      req.Reason,
		ActorUserID: userID,
	}
	if req.RefOrderID != "" {
		ref, err := uuid.Parse(req.RefOrderID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid ref_order_id"})
			return
		}
		svcReq.RefOrderID = &ref
	}

	result, err := h.svc.ApplyMovement(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, applyMovementResponse{
		NewStock: result.NewStock.StringFixed(stockPlaces),
		IsLow:    result.IsLow,
		Movement: toMovementResponse(result.Movement),
	})
}

// ListMovements handles GET /businesses/{bid}/inventory/items/{iid}/movements.
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	itemID, ok := urlUUID(w, r, "iid", "item ID")
	if !ok {
		return
	}

	movements, err := h.svc.ListMovements(r.Context(), businessID, itemID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	resp := make([]movementResponse, len(movements))
	for i, m := range movements {
		resp[i] = toMovementResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

// VerifyStock handles GET /businesses/{bid}/inventory/items/{iid}/verify.
// An inconsistent item is reported in the body, not as an error status.
func (h *InventoryHandler) VerifyStock(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	itemID, ok := urlUUID(w, r, "iid", "item ID")
	if !ok {
		return
	}

	v, err := h.svc.VerifyStock(r.Context(), businessID, itemID)
	if err != nil && !(errors.Is(err, service.ErrStockInconsistent) && v != nil) {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		ItemID:     v.ItemID,
		Stored:     v.Stored.StringFixed(stockPlaces),
		Replayed:   v.Replayed.StringFixed(stockPlaces),
		Movements:  v.Movements,
		Consistent: v.Consistent,
	})
}
