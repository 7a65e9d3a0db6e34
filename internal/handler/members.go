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

// MemberServicer is satisfied by *service.MembershipService.
type MemberServicer interface {
	AddMember(ctx context.Context, req service.AddMemberRequest) (*database.BusinessMembership, error)
}

// MemberHandler handles staff membership endpoints.
type MemberHandler struct {
	svc MemberServicer
	log *zap.Logger
}

func NewMemberHandler(svc MemberServicer, log *zap.Logger) *MemberHandler {
	return &MemberHandler{svc: svc, log: log}
}

// RegisterRoutes registers member endpoints. Mounted at /businesses/{bid}/members.
func (h *MemberHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Add)
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type memberResponse struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"business_id"`
	UserID     uuid.UUID `json:"user_id"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Add handles POST /businesses/{bid}/members.
func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	businessID, ok := urlUUID(w, r, "bid", "business ID")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req addMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
		return
	}

	m, err := h.svc.AddMember(r.Context(), service.AddMemberRequest{
		BusinessID:  businessID,
		ActorUserID: actor,
		UserID:      userID,
		Role:        database.MemberRole(req.Role),
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberResponse{
		ID:         m.ID,
		BusinessID: m.BusinessID,
		UserID:     m.UserID,
		Role:       string(m.Role),
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
	})
}
