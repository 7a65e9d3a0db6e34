package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleLine is one consumed inventory item in a sale.
type SaleLine struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SaleMessage is the body of an order.sale event.
type SaleMessage struct {
	OrderID     uuid.UUID  `json:"order_id"`
	BusinessID  uuid.UUID  `json:"business_id"`
	ActorUserID uuid.UUID  `json:"actor_user_id"`
	Lines       []SaleLine `json:"lines"`
}

func (m SaleMessage) valid() bool {
	if m.OrderID == uuid.Nil || m.BusinessID == uuid.Nil || m.ActorUserID == uuid.Nil || len(m.Lines) == 0 {
		return false
	}
	for _, l := range m.Lines {
		if l.ItemID == uuid.Nil || !l.Quantity.IsPositive() {
			return false
		}
	}
	return true
}

// MovementApplier is satisfied by *service.InventoryService.
type MovementApplier interface {
	ApplyMovement(ctx context.Context, req service.ApplyMovementRequest) (*service.MovementResult, error)
}

// SaleConsumer deducts stock for every item of a sale. Redelivery is safe:
// items already recorded for the order come back as duplicates and are skipped.
type SaleConsumer struct {
	ledger MovementApplier
	log    *zap.Logger
}

func NewSaleConsumer(ledger MovementApplier, log *zap.Logger) *SaleConsumer {
	return &SaleConsumer{ledger: ledger, log: log}
}

// Handle implements Handler.
func (c *SaleConsumer) Handle(ctx context.Context, body []byte) Decision {
	var msg SaleMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		c.log.Warn("malformed sale message", zap.Error(err))
		return Reject
	}
	if !msg.valid() {
		c.log.Warn("invalid sale message", zap.String("order_id", msg.OrderID.String()))
		return Reject
	}

	failed := 0
	for _, line := range mergeLines(msg.Lines) {
		orderID := msg.OrderID
		_, err := c.ledger.ApplyMovement(ctx, service.ApplyMovementRequest{
			ItemID:      line.ItemID,
			BusinessID:  msg.BusinessID,
			Type:        database.MovementTypeAutoSale,
			Delta:       line.Quantity.Neg(),
			ActorUserID: msg.ActorUserID,
			RefOrderID:  &orderID,
		})
		switch decide(err) {
		case Ack:
		case Requeue:
			c.log.Warn("sale line deferred",
				zap.String("order_id", msg.OrderID.String()),
				zap.String("item_id", line.ItemID.String()),
				zap.Error(err),
			)
			return Requeue
		default:
			failed++
			c.log.Error("sale line rejected",
				zap.String("order_id", msg.OrderID.String()),
				zap.String("item_id", line.ItemID.String()),
				zap.Error(err),
			)
		}
	}
	if failed > 0 {
		return Reject
	}
	return Ack
}

// mergeLines sums quantities per item, keeping first-seen order. The ledger
// accepts one auto_sale per (item, order), so repeated items must travel as one
// movement.
func mergeLines(lines []SaleLine) []SaleLine {
	merged := make([]SaleLine, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ItemID]; ok {
			merged[i].Quantity = merged[i].Quantity.Add(l.Quantity)
			continue
		}
		index[l.ItemID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}

// decide maps the result of one movement to a delivery decision.
func decide(err error) Decision {
	switch {
	case err == nil, errors.Is(err, service.ErrDuplicateMovement):
		return Ack
	case errors.Is(err, service.ErrConnectivity),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return Requeue
	default:
		return Reject
	}
}
