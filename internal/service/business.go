package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"go.uber.org/zap"
)

// ModerationChecker reports whether a user is blocked from provisioning.
// Satisfied by *database.Queries.
type ModerationChecker interface {
	IsUserBlocked(ctx context.Context, userID uuid.UUID) (bool, error)
}

// SubscriptionReader reads the billing state of a business.
type SubscriptionReader interface {
	GetSubscriptionStatus(ctx context.Context, businessID uuid.UUID) (*SubscriptionStatus, error)
}

// SubscriptionStatus is the billing collaborator's view of a business.
type SubscriptionStatus struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// SubscriptionStore is the table-backed source for SubscriptionReader.
type SubscriptionStore interface {
	GetSubscriptionStatus(ctx context.Context, businessID uuid.UUID) (database.GetSubscriptionStatusRow, error)
}

// DBSubscriptionReader reads business_subscriptions.
type DBSubscriptionReader struct {
	Store SubscriptionStore
}

func (r DBSubscriptionReader) GetSubscriptionStatus(ctx context.Context, businessID uuid.UUID) (*SubscriptionStatus, error) {
	row, err := r.Store.GetSubscriptionStatus(ctx, businessID)
	if err != nil {
		return nil, dbError("get subscription", err)
	}
	st := &SubscriptionStatus{Status: string(row.Status)}
	if row.Notes.Valid {
		notes := row.Notes.String
		st.Notes = &notes
	}
	return st, nil
}

// BusinessStore defines the DB methods needed to provision a business.
type BusinessStore interface {
	UserHasMembership(ctx context.Context, userID uuid.UUID) (bool, error)
	CreateBusiness(ctx context.Context, arg database.CreateBusinessParams) (database.Business, error)
	CreateMembership(ctx context.Context, arg database.CreateMembershipParams) (database.BusinessMembership, error)
}

// NewBusinessStore creates a BusinessStore from a DBTX (pool or tx).
type NewBusinessStore func(db database.DBTX) BusinessStore

// ownerPerUserKey makes a user a member of at most one business.
const ownerPerUserKey = "business_memberships_user_id_key"

// CreateBusinessRequest is the input for provisioning a business.
type CreateBusinessRequest struct {
	ActorUserID   uuid.UUID
	Name          string
	Type          string
	OperationMode database.OperationMode
}

// ProvisionResult reports a provisioning outcome. Rejections are results
// with Success=false and a Code, not errors.
type ProvisionResult struct {
	Success    bool      `json:"success"`
	BusinessID uuid.UUID `json:"business_id,omitempty"`
	Code       string    `json:"code,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// Err maps a rejected result to its sentinel error, nil on success.
func (r *ProvisionResult) Err() error {
	if r == nil || r.Success {
		return nil
	}
	switch r.Code {
	case enum.CodeAlreadyHasBusiness:
		return ErrAlreadyHasBusiness
	case enum.CodeAccountBlocked:
		return ErrAccountBlocked
	default:
		return ErrInvalidInput
	}
}

func rejected(code, msg string) *ProvisionResult {
	return &ProvisionResult{Success: false, Code: code, Message: msg}
}

// BusinessService provisions businesses together with their owner membership.
type BusinessService struct {
	pool       TxBeginner
	store      BusinessStore
	newStore   NewBusinessStore
	moderation ModerationChecker
	log        *zap.Logger
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(pool TxBeginner, store BusinessStore, newStore NewBusinessStore, moderation ModerationChecker, log *zap.Logger) *BusinessService {
	return &BusinessService{pool: pool, store: store, newStore: newStore, moderation: moderation, log: log}
}

// CreateBusinessAndOwnerMembership creates the business and the actor's owner
// membership atomically. Blocked actors and actors that already belong to a
// business get a rejected result. The error return is reserved for
// unexpected failures.
func (s *BusinessService) CreateBusinessAndOwnerMembership(ctx context.Context, req CreateBusinessRequest) (*ProvisionResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return rejected(enum.CodeInvalidInput, "name is required"), nil
	}
	mode := req.OperationMode
	if mode == "" {
		mode = database.OperationModeCounter
	}
	if mode != database.OperationModeCounter && mode != database.OperationModeRestaurant {
		return rejected(enum.CodeInvalidInput, "invalid operation_mode"), nil
	}

	blocked, err := s.moderation.IsUserBlocked(ctx, req.ActorUserID)
	if err != nil {
		return nil, dbError("check user blocked", err)
	}
	if blocked {
		s.logRejected(req.ActorUserID, enum.CodeAccountBlocked)
		return rejected(enum.CodeAccountBlocked, "account is blocked"), nil
	}

	has, err := s.store.UserHasMembership(ctx, req.ActorUserID)
	if err != nil {
		return nil, dbError("check membership", err)
	}
	if has {
		s.logRejected(req.ActorUserID, enum.CodeAlreadyHasBusiness)
		return rejected(enum.CodeAlreadyHasBusiness, "user already has a business"), nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, dbError("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	biz, err := store.CreateBusiness(ctx, database.CreateBusinessParams{
		Name:          name,
		Type:          strings.TrimSpace(req.Type),
		OperationMode: mode,
		CreatedBy:     req.ActorUserID,
	})
	if err != nil {
		return nil, dbError("create business", err)
	}

	_, err = store.CreateMembership(ctx, database.CreateMembershipParams{
		BusinessID: biz.ID,
		UserID:     req.ActorUserID,
		Role:       database.MemberRoleOwner,
		Status:     database.MembershipStatusActive,
	})
	if err != nil {
		if isUniqueViolation(err, ownerPerUserKey) {
			s.logRejected(req.ActorUserID, enum.CodeAlreadyHasBusiness)
			return rejected(enum.CodeAlreadyHasBusiness, "user already has a business"), nil
		}
		return nil, dbError("create owner membership", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err, ownerPerUserKey) {
			s.logRejected(req.ActorUserID, enum.CodeAlreadyHasBusiness)
			return rejected(enum.CodeAlreadyHasBusiness, "user already has a business"), nil
		}
		return nil, dbError("commit tx", err)
	}

	s.log.Info("business provisioned",
		zap.String("business_id", biz.ID.String()),
		zap.String("owner_id", req.ActorUserID.String()),
	)
	return &ProvisionResult{Success: true, BusinessID: biz.ID}, nil
}

func (s *BusinessService) logRejected(userID uuid.UUID, code string) {
	s.log.Info("provisioning rejected",
		zap.String("user_id", userID.String()),
		zap.String("code", code),
	)
}

