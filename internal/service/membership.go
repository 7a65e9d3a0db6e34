package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
)

// MembershipStore defines the DB methods needed to add staff.
type MembershipStore interface {
	GetActiveMembershipRole(ctx context.Context, arg database.GetActiveMembershipRoleParams) (database.MemberRole, error)
	CreateMembership(ctx context.Context, arg database.CreateMembershipParams) (database.BusinessMembership, error)
}

// AddMemberRequest invites a user into a business with a staff role.
type AddMemberRequest struct {
	BusinessID  uuid.UUID
	ActorUserID uuid.UUID
	UserID      uuid.UUID
	Role        database.MemberRole
}

// MembershipService adds staff to a business under the users limit.
type MembershipService struct {
	store MembershipStore
	quota LimitEnforcer
}

func NewMembershipService(store MembershipStore, quota LimitEnforcer) *MembershipService {
	return &MembershipService{store: store, quota: quota}
}

func validStaffRole(r database.MemberRole) bool {
	switch r {
	case database.MemberRoleAdmin,
		database.MemberRoleInventoryManager,
		database.MemberRoleCashier,
		database.MemberRoleKitchen,
		database.MemberRoleWaiter:
		return true
	}
	return false
}

// AddMember creates an active membership. Only owners and admins may add
// members and nobody may add a second owner. A user already belonging to a
// business is rejected with ErrAlreadyHasBusiness.
func (s *MembershipService) AddMember(ctx context.Context, req AddMemberRequest) (*database.BusinessMembership, error) {
	if !validStaffRole(req.Role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, req.Role)
	}

	role, err := memberRole(ctx, s.store, req.BusinessID, req.ActorUserID)
	if err != nil {
		return nil, err
	}
	if !isManagerRole(role) {
		return nil, fmt.Errorf("%w: role %s cannot add members", ErrUnauthorized, role)
	}

	if err := s.quota.Enforce(ctx, req.BusinessID, enum.LimitUsers); err != nil {
		return nil, err
	}

	m, err := s.store.CreateMembership(ctx, database.CreateMembershipParams{
		BusinessID: req.BusinessID,
		UserID:     req.UserID,
		Role:       req.Role,
		Status:     database.MembershipStatusActive,
	})
	if err != nil {
		if isUniqueViolation(err, ownerPerUserKey) {
			return nil, ErrAlreadyHasBusiness
		}
		return nil, dbError("create membership", err)
	}
	return &m, nil
}
