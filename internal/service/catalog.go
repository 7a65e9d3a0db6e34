package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// CatalogStore defines the DB methods needed to manage products.
type CatalogStore interface {
	GetActiveMembershipRole(ctx context.Context, arg database.GetActiveMembershipRoleParams) (database.MemberRole, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	SoftDeleteProduct(ctx context.Context, arg database.SoftDeleteProductParams) (database.Product, error)
}

// CreateProductRequest is the input for adding a product to the menu.
type CreateProductRequest struct {
	BusinessID  uuid.UUID
	ActorUserID uuid.UUID
	Name        string
	Price       decimal.Decimal
}

// CatalogService manages the product list under the products limit.
type CatalogService struct {
	store CatalogStore
	quota LimitEnforcer
}

func NewCatalogService(store CatalogStore, quota LimitEnforcer) *CatalogService {
	return &CatalogService{store: store, quota: quota}
}

func (s *CatalogService) requireManager(ctx context.Context, businessID, userID uuid.UUID) error {
	role, err := memberRole(ctx, s.store, businessID, userID)
	if err != nil {
		return err
	}
	if !isManagerRole(role) {
		return fmt.Errorf("%w: role %s cannot manage products", ErrUnauthorized, role)
	}
	return nil
}

// CreateProduct adds a product when the business is under its products limit.
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*database.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}

	if err := s.requireManager(ctx, req.BusinessID, req.ActorUserID); err != nil {
		return nil, err
	}
	if err := s.quota.Enforce(ctx, req.BusinessID, enum.LimitProducts); err != nil {
		return nil, err
	}

	product, err := s.store.CreateProduct(ctx, database.CreateProductParams{
		BusinessID: req.BusinessID,
		Name:       name,
		Price:      decimalToNumeric(req.Price.Round(2)),
	})
	if err != nil {
		return nil, dbError("create product", err)
	}
	return &product, nil
}

// DeleteProduct soft-deletes a product, freeing its slot in the products limit.
func (s *CatalogService) DeleteProduct(ctx context.Context, businessID, productID, actorUserID uuid.UUID) error {
	if err := s.requireManager(ctx, businessID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.SoftDeleteProduct(ctx, database.SoftDeleteProductParams{
		ID:         productID,
		BusinessID: businessID,
	}); err != nil {
		return dbError("delete product", err)
	}
	return nil
}
