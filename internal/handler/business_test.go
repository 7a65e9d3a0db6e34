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

type mockBusinessService struct {
	createFn func(ctx context.Context, req service.CreateBusinessRequest) (*service.ProvisionResult, error)
}

func (m *mockBusinessService) CreateBusinessAndOwnerMembership(ctx context.Context, req service.CreateBusinessRequest) (*service.ProvisionResult, error) {
	return m.createFn(ctx, req)
}

type mockLimitChecker struct {
	checkFn func(ctx context.Context, businessID uuid.UUID, limitType string) (*service.LimitCheck, error)
}

func (m *mockLimitChecker) CheckLimit(ctx context.Context, businessID uuid.UUID, limitType string) (*service.LimitCheck, error) {
	return m.checkFn(ctx, businessID, limitType)
}

type mockSubscriptions struct {
	status *service.SubscriptionStatus
	err    error
}

func (m *mockSubscriptions) GetSubscriptionStatus(context.Context, uuid.UUID) (*service.SubscriptionStatus, error) {
	return m.status, m.err
}

func setupBusinessRouter(svc *mockBusinessService, limits *mockLimitChecker, subs *mockSubscriptions) *chi.Mux {
	h := handler.NewBusinessHandler(svc, limits, subs, zap.NewNop())
	return newTestRouter(func(r chi.Router) {
		r.Route("/businesses", func(r chi.Router) {
			h.RegisterRoutes(r)
			r.Route("/{bid}", h.RegisterScopedRoutes)
		})
	})
}

func TestCreateBusiness_Success(t *testing.T) {
	userID := uuid.New()
	businessID := uuid.New()
	var got service.CreateBusinessRequest
	svc := &mockBusinessService{createFn: func(_ context.Context, req service.CreateBusinessRequest) (*service.ProvisionResult, error) {
		got = req
		return &service.ProvisionResult{Success: true, BusinessID: businessID}, nil
	}}
	router := setupBusinessRouter(svc, nil, nil)

	rr := doAuthRequest(t, router, "POST", "/businesses", map[string]string{
		"name":           "Warung Kopi",
		"type":           "cafe",
		"operation_mode": "restaurant",
	}, userID)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["success"] != true || resp["business_id"] != businessID.String() {
		t.Errorf("response: %v", resp)
	}
	if got.ActorUserID != userID || got.Name != "Warung Kopi" || got.OperationMode != database.OperationModeRestaurant {
		t.Errorf("service request: %+v", got)
	}
}

func TestCreateBusiness_Rejections(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{enum.CodeAlreadyHasBusiness, http.StatusConflict},
		{enum.CodeAccountBlocked, http.StatusForbidden},
		{enum.CodeInvalidInput, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svc := &mockBusinessService{createFn: func(context.Context, service.CreateBusinessRequest) (*service.ProvisionResult, error) {
				return &service.ProvisionResult{Code: tt.code, Message: "rejected"}, nil
			}}
			rr := doAuthRequest(t, setupBusinessRouter(svc, nil, nil), "POST", "/businesses", map[string]string{"name": "X"}, uuid.New())

			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
			resp := decodeResponse(t, rr)
			if resp["success"] != false || resp["code"] != tt.code {
				t.Errorf("response: %v", resp)
			}
		})
	}
}

func TestCreateBusiness_DatabaseDown(t *testing.T) {
	svc := &mockBusinessService{createFn: func(context.Context, service.CreateBusinessRequest) (*service.ProvisionResult, error) {
		return nil, fmt.Errorf("begin tx: %w", service.ErrConnectivity)
	}}
	rr := doAuthRequest(t, setupBusinessRouter(svc, nil, nil), "POST", "/businesses", map[string]string{"name": "X"}, uuid.New())
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestCreateBusiness_BadBody(t *testing.T) {
	router := setupBusinessRouter(&mockBusinessService{}, nil, nil)
	rr := doAuthRequest(t, router, "POST", "/businesses", "not an object", uuid.New())
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCheckLimit(t *testing.T) {
	businessID := uuid.New()
	limits := &mockLimitChecker{checkFn: func(_ context.Context, bid uuid.UUID, limitType string) (*service.LimitCheck, error) {
		if limitType != enum.LimitUsers {
			return nil, fmt.Errorf("%w: %q", service.ErrInvalidLimitType, limitType)
		}
		return &service.LimitCheck{Allowed: false, Current: 3, Limit: 3, LimitType: limitType}, nil
	}}
	router := setupBusinessRouter(nil, limits, nil)

	rr := doAuthRequest(t, router, "GET", "/businesses/"+businessID.String()+"/limits/users", nil, uuid.New())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["allowed"] != false || resp["current"] != float64(3) || resp["limit"] != float64(3) {
		t.Errorf("response: %v", resp)
	}

	rr = doAuthRequest(t, router, "GET", "/businesses/"+businessID.String()+"/limits/tables", nil, uuid.New())
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown type: expected 400, got %d", rr.Code)
	}

	rr = doAuthRequest(t, router, "GET", "/businesses/nope/limits/users", nil, uuid.New())
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad business id: expected 400, got %d", rr.Code)
	}
}

func TestSubscription(t *testing.T) {
	notes := "trial ends soon"
	router := setupBusinessRouter(nil, nil, &mockSubscriptions{status: &service.SubscriptionStatus{Status: "trial", Notes: &notes}})

	rr := doAuthRequest(t, router, "GET", "/businesses/"+uuid.New().String()+"/subscription", nil, uuid.New())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["status"] != "trial" || resp["notes"] != notes {
		t.Errorf("response: %v", resp)
	}

	router = setupBusinessRouter(nil, nil, &mockSubscriptions{err: fmt.Errorf("get subscription: %w", service.ErrNotFound)})
	rr = doAuthRequest(t, router, "GET", "/businesses/"+uuid.New().String()+"/subscription", nil, uuid.New())
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing row: expected 404, got %d", rr.Code)
	}
}

func TestUnauthenticated(t *testing.T) {
	router := setupBusinessRouter(&mockBusinessService{}, nil, nil)
	rr := doRawRequest(router, "POST", "/businesses")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
