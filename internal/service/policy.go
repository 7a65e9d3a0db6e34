package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mesapos/api/internal/database"
)

// MovementPolicy decides which member roles may post which movement types.
type MovementPolicy interface {
	Allows(role database.MemberRole, movementType database.MovementType) bool
}

// RolePolicy maps each movement type to the roles allowed to post it.
// Types missing from the map are denied for everyone.
type RolePolicy map[database.MovementType][]database.MemberRole

func (p RolePolicy) Allows(role database.MemberRole, movementType database.MovementType) bool {
	for _, r := range p[movementType] {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultMovementPolicy: stock managers post purchases and adjustments,
// kitchen may also record waste, cashiers post sales and their reversals.
func DefaultMovementPolicy() RolePolicy {
	managers := []database.MemberRole{
		database.MemberRoleOwner,
		database.MemberRoleAdmin,
		database.MemberRoleInventoryManager,
	}
	sellers := []database.MemberRole{
		database.MemberRoleOwner,
		database.MemberRoleAdmin,
		database.MemberRoleCashier,
	}
	return RolePolicy{
		database.MovementTypePurchase:     managers,
		database.MovementTypeAdjustment:   managers,
		database.MovementTypeWaste:        append(append([]database.MemberRole{}, managers...), database.MemberRoleKitchen),
		database.MovementTypeAutoSale:     sellers,
		database.MovementTypeSaleReversal: sellers,
	}
}

func validMovementType(t database.MovementType) bool {
	switch t {
	case database.MovementTypePurchase,
		database.MovementTypeAdjustment,
		database.MovementTypeAutoSale,
		database.MovementTypeWaste,
		database.MovementTypeSaleReversal:
		return true
	}
	return false
}

// requiresRefOrder reports whether the movement type is order-referencing.
func requiresRefOrder(t database.MovementType) bool {
	return t == database.MovementTypeAutoSale || t == database.MovementTypeSaleReversal
}

func isManagerRole(role database.MemberRole) bool {
	return role == database.MemberRoleOwner || role == database.MemberRoleAdmin
}

type roleLookup interface {
	GetActiveMembershipRole(ctx context.Context, arg database.GetActiveMembershipRoleParams) (database.MemberRole, error)
}

// memberRole returns the actor's active role, ErrUnauthorized when there is none.
func memberRole(ctx context.Context, store roleLookup, businessID, userID uuid.UUID) (database.MemberRole, error) {
	role, err := store.GetActiveMembershipRole(ctx, database.GetActiveMembershipRoleParams{
		BusinessID: businessID,
		UserID:     userID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", dbError("get membership", err)
	}
	return role, nil
}
