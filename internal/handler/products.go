package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogServicer is satisfied by *service.CatalogService.
type CatalogServicer interface {
	CreateProduct(ctx context.Context, req service.CreateProductRequest) (*database.Product, error)
	DeleteProduct(ctx context.Context, businessID, productID, actorUserID uuid.UUID) error
}

// ProductHandler handles product endpoints.
type ProductHandler struct {
	svc CatalogServicer
	log *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc CatalogServicer, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// RegisterRoutes registers product endpoints. Mounted at /businesses/{bid}/products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Delete("/{pid}", h.Delete)
}

type createProductRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type productResponse struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"business_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

func toProductResponse(p database.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		BusinessID: p.BusinessID,
		Name:       p.Name,
		Price:      numericToString(p.Price, 2),
		CreatedAt:  p.CreatedAt,
	}
}

// Create handles POST /businesses/{bid}/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req createProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid price"})
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), service.CreateProductRequest{
		BusinessID:  businessID,
		ActorUserID: userID,
		Name:        req.Name,
		Price:       price,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(*p))
}

// Delete handles DELETE /businesses/{bid}/products/{pid}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	productID, ok := urlUUID(w, r, "pid", "product ID")
	if !ok {
		return
	}
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), businessID, productID, userID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
