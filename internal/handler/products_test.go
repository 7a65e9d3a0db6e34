package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"github.com/mesapos/api/internal/handler"
	"github.com/mesapos/api/internal/service"
	"go.uber.org/zap"
)

type mockCatalogService struct {
	createFn func(ctx context.Context, req service.CreateProductRequest) (*database.Product, error)
	deleteFn func(ctx context.Context, businessID, productID, actorUserID uuid.UUID) error
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, req service.CreateProductRequest) (*database.Product, error) {
	return m.createFn(ctx, req)
}
func (m *mockCatalogService) DeleteProduct(ctx context.Context, businessID, productID, actorUserID uuid.UUID) error {
	return m.deleteFn(ctx, businessID, productID, actorUserID)
}

func setupProductRouter(svc *mockCatalogService) *chi.Mux {
	h := handler.NewProductHandler(svc, zap.NewNop())
	return newTestRouter(func(r chi.Router) {
		r.Route("/businesses/{bid}/products", h.RegisterRoutes)
	})
}

func TestCreateProduct_Success(t *testing.T) {
	svc := &mockCatalogService{createFn: func(_ context.Context, req service.CreateProductRequest) (*database.Product, error) {
		return &database.Product{ID: uuid.New(), BusinessID: req.BusinessID, Name: req.Name, Price: testNumeric("25000.5")}, nil
	}}
	rr := doAuthRequest(t, setupProductRouter(svc), "POST", "/businesses/"+uuid.New().String()+"/products",
		map[string]string{"name": "Nasi Goreng", "price": "25000.50"}, uuid.New())

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["name"] != "Nasi Goreng" || resp["price"] != "25000.50" {
		t.Errorf("response: %v", resp)
	}
}

func TestCreateProduct_LimitExceeded(t *testing.T) {
	svc := &mockCatalogService{createFn: func(context.Context, service.CreateProductRequest) (*database.Product, error) {
		return nil, &service.LimitExceededError{LimitType: enum.LimitProducts, Current: 100, Limit: 100}
	}}
	rr := doAuthRequest(t, setupProductRouter(svc), "POST", "/businesses/"+uuid.New().String()+"/products",
		map[string]string{"name": "x", "price": "1"}, uuid.New())

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["code"] != "LIMIT_EXCEEDED" || resp["limit_type"] != enum.LimitProducts || resp["current"] != float64(100) || resp["limit"] != float64(100) {
		t.Errorf("response: %v", resp)
	}
}

func TestCreateProduct_InvalidPrice(t *testing.T) {
	rr := doAuthRequest(t, setupProductRouter(&mockCatalogService{}), "POST", "/businesses/"+uuid.New().String()+"/products",
		map[string]string{"name": "x", "price": "free"}, uuid.New())
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	businessID, productID, userID := uuid.New(), uuid.New(), uuid.New()
	svc := &mockCatalogService{deleteFn: func(_ context.Context, bid, pid, actor uuid.UUID) error {
		if bid != businessID || pid != productID || actor != userID {
			return fmt.Errorf("delete product: %w", service.ErrNotFound)
		}
		return nil
	}}
	router := setupProductRouter(svc)

	rr := doAuthRequest(t, router, "DELETE", "/businesses/"+businessID.String()+"/products/"+productID.String(), nil, userID)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	rr = doAuthRequest(t, router, "DELETE", "/businesses/"+businessID.String()+"/products/"+uuid.New().String(), nil, userID)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}
