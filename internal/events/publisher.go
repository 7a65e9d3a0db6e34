package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessagePublisher is satisfied by *Client.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Envelope is the body of every published domain event.
type Envelope struct {
	Type       string    `json:"type"`
	BusinessID uuid.UUID `json:"business_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher forwards service notifications to the exchange, routed by event
// type. Publish failures are logged, never returned: the originating
// transaction has already committed.
type Publisher struct {
	pub     MessagePublisher
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewPublisher(pub MessagePublisher, log *zap.Logger) *Publisher {
	return &Publisher{pub: pub, timeout: 5 * time.Second, log: log, now: time.Now}
}

// Notify implements service.Notifier.
func (p *Publisher) Notify(ctx context.Context, businessID uuid.UUID, eventType string, payload any) {
	// The request context may already be cancelled once the response is written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err := p.pub.Publish(ctx, eventType, Envelope{
		Type:       eventType,
		BusinessID: businessID,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		p.log.Warn("publish event",
			zap.String("type", eventType),
			zap.String("business_id", businessID.String()),
			zap.Error(err),
		)
	}
}
