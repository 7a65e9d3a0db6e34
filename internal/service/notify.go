package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Notifier receives domain events after their transaction commits.
// Implementations must not block the caller for long and must not fail it.
type Notifier interface {
	Notify(ctx context.Context, businessID uuid.UUID, eventType string, payload any)
}

// Notifiers fans one event out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, businessID uuid.UUID, eventType string, payload any) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, businessID, eventType, payload)
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, uuid.UUID, string, any) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
