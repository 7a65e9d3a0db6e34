package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryStore defines the DB methods needed by the inventory ledger.
// Satisfied by *database.Queries (and its WithTx variant).
type InventoryStore interface {
	GetActiveMembershipRole(ctx context.Context, arg database.GetActiveMembershipRoleParams) (database.MemberRole, error)
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
	GetInventoryItem(ctx context.Context, arg database.GetInventoryItemParams) (database.InventoryItem, error)
	GetInventoryItemForUpdate(ctx context.Context, arg database.GetInventoryItemForUpdateParams) (database.InventoryItem, error)
	MovementExists(ctx context.Context, arg database.MovementExistsParams) (bool, error)
	OrderInBusiness(ctx context.Context, arg database.OrderInBusinessParams) (bool, error)
	UpdateItemStock(ctx context.Context, arg database.UpdateItemStockParams) error
	CreateInventoryMovement(ctx context.Context, arg database.CreateInventoryMovementParams) (database.InventoryMovement, error)
	ListMovementsByItem(ctx context.Context, arg database.ListMovementsByItemParams) ([]database.InventoryMovement, error)
}

// NewInventoryStore creates an InventoryStore from a DBTX (pool or tx).
type NewInventoryStore func(db database.DBTX) InventoryStore

// movementIdempotencyKey is the partial unique index on
// (item_id, ref_order_id, type) for order-referencing movements.
const movementIdempotencyKey = "inventory_movements_item_order_key"

// ApplyMovementRequest is the validated input for a stock movement.
type ApplyMovementRequest struct {
	ItemID      uuid.UUID
	BusinessID  uuid.UUID
	Type        database.MovementType
	Delta       decimal.Decimal
	Reason      string
	ActorUserID uuid.UUID
	RefOrderID  *uuid.UUID
}

// MovementResult is the outcome of a committed movement.
type MovementResult struct {
	NewStock decimal.Decimal
	IsLow    bool
	Movement database.InventoryMovement
}

// LowStockEvent is published when a movement leaves an item at or below its minimum.
type LowStockEvent struct {
	ItemID       uuid.UUID       `json:"item_id"`
	Name         string          `json:"name"`
	StockCurrent decimal.Decimal `json:"stock_current"`
	StockMin     decimal.Decimal `json:"stock_min"`
	MovementID   uuid.UUID       `json:"movement_id"`
}

// CreateItemRequest is the input for registering an inventory item.
type CreateItemRequest struct {
	BusinessID  uuid.UUID
	ActorUserID uuid.UUID
	Name        string
	Unit        string
	StockMin    decimal.Decimal
	TrackMode   database.TrackMode
}

// StockVerification compares the materialized stock with its movement history.
type StockVerification struct {
	ItemID     uuid.UUID
	Stored     decimal.Decimal
	Replayed   decimal.Decimal
	Movements  int
	Consistent bool
}

// InventoryService is the stock ledger. Every stock change is a movement
// applied under a row lock on the item.
type InventoryService struct {
	pool     TxBeginner
	store    InventoryStore
	newStore NewInventoryStore
	policy   MovementPolicy
	notifier Notifier
	log      *zap.Logger
}

// NewInventoryService creates a new InventoryService. A nil policy falls back
// to DefaultMovementPolicy.
func NewInventoryService(pool TxBeginner, store InventoryStore, newStore NewInventoryStore, policy MovementPolicy, notifier Notifier, log *zap.Logger) *InventoryService {
	if policy == nil {
		policy = DefaultMovementPolicy()
	}
	return &InventoryService{
		pool:     pool,
		store:    store,
		newStore: newStore,
		policy:   policy,
		notifier: notifierOrNop(notifier),
		log:      log,
	}
}

func (s *InventoryService) validate(req ApplyMovementRequest) error {
	if !validMovementType(req.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidMovementType, req.Type)
	}
	if req.Delta.IsZero() {
		return ErrInvalidDelta
	}
	if requiresRefOrder(req.Type) && req.RefOrderID == nil {
		return ErrRefOrderRequired
	}
	return nil
}

// ApplyMovement locks the item, checks the actor and the idempotency key,
// then writes the new stock and the movement in one transaction.
func (s *InventoryService) ApplyMovement(ctx context.Context, req ApplyMovementRequest) (*MovementResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, dbError("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	item, err := store.GetInventoryItemForUpdate(ctx, database.GetInventoryItemForUpdateParams{
		ID:         req.ItemID,
		BusinessID: req.BusinessID,
	})
	if err != nil {
		return nil, dbError("lock item", err)
	}

	if err := s.authorize(ctx, store, req.BusinessID, req.ActorUserID, req.Type); err != nil {
		return nil, err
	}

	if req.RefOrderID != nil {
		owned, err := store.OrderInBusiness(ctx, database.OrderInBusinessParams{
			ID:         *req.RefOrderID,
			BusinessID: req.BusinessID,
		})
		if err != nil {
			return nil, dbError("check order", err)
		}
		if !owned {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, *req.RefOrderID)
		}

		exists, err := store.MovementExists(ctx, database.MovementExistsParams{
			ItemID:     req.ItemID,
			RefOrderID: uuidPtrToPg(req.RefOrderID),
			Type:       req.Type,
		})
		if err != nil {
			return nil, dbError("check movement", err)
		}
		if exists {
			s.logDuplicate(req)
			return nil, ErrDuplicateMovement
		}
	}

	before := numericToDecimal(item.StockCurrent)
	after := before.Add(req.Delta)

	if err := store.UpdateItemStock(ctx, database.UpdateItemStockParams{
		ID:           item.ID,
		StockCurrent: stockToNumeric(after),
	}); err != nil {
		return nil, dbError("update stock", err)
	}

	movement, err := store.CreateInventoryMovement(ctx, database.CreateInventoryMovementParams{
		ItemID:      item.ID,
		BusinessID:  req.BusinessID,
		Type:        req.Type,
		Delta:       stockToNumeric(req.Delta),
		StockBefore: stockToNumeric(before),
		StockAfter:  stockToNumeric(after),
		Reason:      strings.TrimSpace(req.Reason),
		ActorUserID: req.ActorUserID,
		RefOrderID:  uuidPtrToPg(req.RefOrderID),
	})
	if err != nil {
		if isUniqueViolation(err, movementIdempotencyKey) {
			s.logDuplicate(req)
			return nil, ErrDuplicateMovement
		}
		if isForeignKeyViolation(err) {
			s.log.Error("movement references a missing row",
				zap.String("item_id", req.ItemID.String()),
				zap.Stringp("ref_order_id", refString(req.RefOrderID)),
				zap.Error(err),
			)
		}
		return nil, dbError("insert movement", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, dbError("commit tx", err)
	}

	stockMin := numericToDecimal(item.StockMin)
	result := &MovementResult{
		NewStock: after,
		IsLow:    after.LessThanOrEqual(stockMin),
		Movement: movement,
	}

	if result.IsLow {
		s.notifier.Notify(ctx, req.BusinessID, enum.EventLowStock, LowStockEvent{
			ItemID:       item.ID,
			Name:         item.Name,
			StockCurrent: after,
			StockMin:     stockMin,
			MovementID:   movement.ID,
		})
	}

	return result, nil
}

func (s *InventoryService) authorize(ctx context.Context, store InventoryStore, businessID, userID uuid.UUID, t database.MovementType) error {
	role, err := memberRole(ctx, store, businessID, userID)
	if err != nil {
		return err
	}
	if !s.policy.Allows(role, t) {
		return fmt.Errorf("%w: role %s cannot post %s", ErrUnauthorized, role, t)
	}
	return nil
}

func (s *InventoryService) logDuplicate(req ApplyMovementRequest) {
	s.log.Info("duplicate movement ignored",
		zap.String("item_id", req.ItemID.String()),
		zap.Stringp("ref_order_id", refString(req.RefOrderID)),
		zap.String("type", string(req.Type)),
	)
}

func refString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// CreateItem registers a new item with zero stock. Only roles that may post
// purchases can create items.
func (s *InventoryService) CreateItem(ctx context.Context, req CreateItemRequest) (*database.InventoryItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Unit) == "" {
		return nil, fmt.Errorf("%w: name and unit are required", ErrInvalidInput)
	}
	if req.StockMin.IsNegative() {
		return nil, fmt.Errorf("%w: stock_min must be >= 0", ErrInvalidInput)
	}
	trackMode := req.TrackMode
	if trackMode == "" {
		trackMode = database.TrackModeAuto
	}
	if trackMode != database.TrackModeAuto && trackMode != database.TrackModeManual {
		return nil, fmt.Errorf("%w: track_mode %q", ErrInvalidInput, trackMode)
	}

	if err := s.authorize(ctx, s.store, req.BusinessID, req.ActorUserID, database.MovementTypePurchase); err != nil {
		return nil, err
	}

	item, err := s.store.CreateInventoryItem(ctx, database.CreateInventoryItemParams{
		BusinessID: req.BusinessID,
		Name:       name,
		Unit:       strings.TrimSpace(req.Unit),
		StockMin:   stockToNumeric(req.StockMin),
		TrackMode:  trackMode,
	})
	if err != nil {
		return nil, dbError("create item", err)
	}
	return &item, nil
}

// ListMovements returns the item's movement history, oldest first.
func (s *InventoryService) ListMovements(ctx context.Context, businessID, itemID uuid.UUID) ([]database.InventoryMovement, error) {
	if _, err := s.store.GetInventoryItem(ctx, database.GetInventoryItemParams{ID: itemID, BusinessID: businessID}); err != nil {
		return nil, dbError("get item", err)
	}
	movements, err := s.store.ListMovementsByItem(ctx, database.ListMovementsByItemParams{ItemID: itemID, BusinessID: businessID})
	if err != nil {
		return nil, dbError("list movements", err)
	}
	return movements, nil
}

// VerifyStock replays the movement history from zero and compares the result
// with stock_current. Each movement's stock_before must equal the previous
// movement's stock_after.
func (s *InventoryService) VerifyStock(ctx context.Context, businessID, itemID uuid.UUID) (*StockVerification, error) {
	item, err := s.store.GetInventoryItem(ctx, database.GetInventoryItemParams{ID: itemID, BusinessID: businessID})
	if err != nil {
		return nil, dbError("get item", err)
	}
	movements, err := s.store.ListMovementsByItem(ctx, database.ListMovementsByItemParams{ItemID: itemID, BusinessID: businessID})
	if err != nil {
		return nil, dbError("list movements", err)
	}

	replayed := decimal.Zero
	chainBroken := false
	for _, m := range movements {
		if !numericToDecimal(m.StockBefore).Equal(replayed) {
			chainBroken = true
		}
		replayed = replayed.Add(numericToDecimal(m.Delta))
		if !numericToDecimal(m.StockAfter).Equal(replayed) {
			chainBroken = true
		}
	}

	v := &StockVerification{
		ItemID:    item.ID,
		Stored:    numericToDecimal(item.StockCurrent),
		Replayed:  replayed,
		Movements: len(movements),
	}
	v.Consistent = !chainBroken && v.Stored.Equal(replayed)

	if !v.Consistent {
		s.log.Error("stock does not match movement history",
			zap.String("item_id", item.ID.String()),
			zap.String("stored", v.Stored.String()),
			zap.String("replayed", v.Replayed.String()),
			zap.Bool("chain_broken", chainBroken),
		)
		return v, ErrStockInconsistent
	}
	return v, nil
}
