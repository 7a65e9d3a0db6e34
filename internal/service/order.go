package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"github.com/mesapos/api/internal/orderflow"
	"go.uber.org/zap"
)

// OrderStore defines the DB methods needed for order lifecycle operations.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetActiveMembershipRole(ctx context.Context, arg database.GetActiveMembershipRoleParams) (database.MemberRole, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (database.Business, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	CreateOrderStatusEvent(ctx context.Context, arg database.CreateOrderStatusEventParams) (database.OrderStatusEvent, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the input for opening an order.
type CreateOrderRequest struct {
	BusinessID  uuid.UUID
	ActorUserID uuid.UUID
}

// TransitionRequest moves an order along the lifecycle graph.
type TransitionRequest struct {
	OrderID     uuid.UUID
	BusinessID  uuid.UUID
	ActorUserID uuid.UUID
	To          database.OrderStatus
	Reason      string
}

// OrderStatusChangedEvent is published after a transition commits.
type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID            `json:"order_id"`
	From      database.OrderStatus `json:"from"`
	To        database.OrderStatus `json:"to"`
	Reason    string               `json:"reason,omitempty"`
	ChangedBy uuid.UUID            `json:"changed_by"`
	ChangedAt time.Time            `json:"changed_at"`
}

// TransitionOptions lists what an order can move to next.
type TransitionOptions struct {
	Current          database.OrderStatus   `json:"current"`
	Next             []database.OrderStatus `json:"next"`
	Terminal         bool                   `json:"terminal"`
	CanSkipDelivered bool                   `json:"can_skip_delivered"`
}

// OrderService handles order lifecycle logic.
type OrderService struct {
	pool     TxBeginner
	store    OrderStore
	newStore NewOrderStore
	quota    LimitEnforcer
	notifier Notifier
	log      *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, store OrderStore, newStore NewOrderStore, quota LimitEnforcer, notifier Notifier, log *zap.Logger) *OrderService {
	return &OrderService{
		pool:     pool,
		store:    store,
		newStore: newStore,
		quota:    quota,
		notifier: notifierOrNop(notifier),
		log:      log,
	}
}

// CreateOrder opens a new order in the business's operation mode, subject to
// the orders_day limit.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*database.Order, error) {
	if _, err := memberRole(ctx, s.store, req.BusinessID, req.ActorUserID); err != nil {
		return nil, err
	}

	if err := s.quota.Enforce(ctx, req.BusinessID, enum.LimitOrdersDay); err != nil {
		return nil, err
	}

	biz, err := s.store.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, dbError("get business", err)
	}

	order, err := s.store.CreateOrder(ctx, database.CreateOrderParams{
		BusinessID:    req.BusinessID,
		OperationMode: biz.OperationMode,
		CreatedBy:     req.ActorUserID,
	})
	if err != nil {
		return nil, dbError("create order", err)
	}
	return &order, nil
}

// TransitionStatus locks the order, validates the edge and records it in the
// status history. Cancelling needs a reason and a cashier-class role.
func (s *OrderService) TransitionStatus(ctx context.Context, req TransitionRequest) (*database.Order, error) {
	reason := strings.TrimSpace(req.Reason)
	if !orderflow.IsValid(req.To) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, req.To)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, dbError("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	current, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		ID:         req.OrderID,
		BusinessID: req.BusinessID,
	})
	if err != nil {
		return nil, dbError("lock order", err)
	}

	role, err := memberRole(ctx, store, req.BusinessID, req.ActorUserID)
	if err != nil {
		return nil, err
	}

	if err := orderflow.Validate(current.Status, req.To); err != nil {
		return nil, err
	}

	var cancelReason string
	if orderflow.RequiresReason(current.Status, req.To) {
		if reason == "" {
			return nil, ErrReasonRequired
		}
		if !isManagerRole(role) && role != database.MemberRoleCashier {
			return nil, fmt.Errorf("%w: role %s cannot cancel orders", ErrUnauthorized, role)
		}
		cancelReason = reason
	}

	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:           current.ID,
		Status:       req.To,
		CancelReason: textOrNull(cancelReason),
	})
	if err != nil {
		return nil, dbError("update order status", err)
	}

	event, err := store.CreateOrderStatusEvent(ctx, database.CreateOrderStatusEventParams{
		OrderID:    current.ID,
		FromStatus: current.Status,
		ToStatus:   req.To,
		Reason:     textOrNull(reason),
		ChangedBy:  req.ActorUserID,
	})
	if err != nil {
		return nil, dbError("record status event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, dbError("commit tx", err)
	}

	s.notifier.Notify(ctx, req.BusinessID, enum.EventOrderStatusChanged, OrderStatusChangedEvent{
		OrderID:   current.ID,
		From:      current.Status,
		To:        req.To,
		Reason:    reason,
		ChangedBy: req.ActorUserID,
		ChangedAt: event.ChangedAt,
	})

	return &updated, nil
}

// AvailableTransitions reports the next statuses for an order.
func (s *OrderService) AvailableTransitions(ctx context.Context, businessID, orderID uuid.UUID) (*TransitionOptions, error) {
	order, err := s.store.GetOrder(ctx, database.GetOrderParams{ID: orderID, BusinessID: businessID})
	if err != nil {
		return nil, dbError("get order", err)
	}
	return &TransitionOptions{
		Current:          order.Status,
		Next:             orderflow.NextStates(order.Status),
		Terminal:         orderflow.IsTerminal(order.Status),
		CanSkipDelivered: orderflow.CanSkipDelivered(order.OperationMode),
	}, nil
}
