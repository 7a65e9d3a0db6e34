// Package orderflow holds the order lifecycle graph. Every order status write
// is checked here first; persisting the new status is the caller's job.
package orderflow

import (
	"errors"
	"fmt"

	"github.com/mesapos/api/internal/database"
)

// ErrInvalidTransition is returned by Validate for any edge not in the graph.
var ErrInvalidTransition = errors.New("invalid status transition")

// transitions is the directed lifecycle graph. No self-loops, no back-edges.
var transitions = map[database.OrderStatus][]database.OrderStatus{
	database.OrderStatusOPEN:      {database.OrderStatusINPREP, database.OrderStatusCANCELLED},
	database.OrderStatusINPREP:    {database.OrderStatusREADY, database.OrderStatusCANCELLED},
	database.OrderStatusREADY:     {database.OrderStatusDELIVERED, database.OrderStatusCLOSED},
	database.OrderStatusDELIVERED: {database.OrderStatusCLOSED},
	database.OrderStatusCLOSED:    {},
	database.OrderStatusCANCELLED: {},
}

// Statuses lists every known status in lifecycle order.
var Statuses = []database.OrderStatus{
	database.OrderStatusOPEN,
	database.OrderStatusINPREP,
	database.OrderStatusREADY,
	database.OrderStatusDELIVERED,
	database.OrderStatusCLOSED,
	database.OrderStatusCANCELLED,
}

// IsValid reports whether s is a known status.
func IsValid(s database.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from -> to is an edge of the graph.
func CanTransition(from, to database.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStates returns the statuses reachable in one step from current.
// The returned slice is a copy.
func NextStates(current database.OrderStatus) []database.OrderStatus {
	next := transitions[current]
	out := make([]database.OrderStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s database.OrderStatus) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// RequiresReason reports whether the caller must capture an operator reason.
// Only cancellation does.
func RequiresReason(_, to database.OrderStatus) bool {
	return to == database.OrderStatusCANCELLED
}

// CanSkipDelivered reports whether READY -> CLOSED is the expected path for the
// mode. The edge is legal for every mode; this only drives which action a
// counter terminal offers first.
func CanSkipDelivered(mode database.OperationMode) bool {
	return mode == database.OperationModeCounter
}

// Validate returns ErrInvalidTransition (wrapped with both statuses) when
// from -> to is not allowed.
func Validate(from, to database.OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
