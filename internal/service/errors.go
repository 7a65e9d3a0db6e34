package service

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mesapos/api/internal/orderflow"
)

// Errors shared by the transactional core. Handlers map them to status codes
// with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDuplicateMovement  = errors.New("duplicate movement")
	ErrLimitExceeded      = errors.New("limit exceeded")
	ErrAlreadyHasBusiness = errors.New("user already has a business")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrConnectivity       = errors.New("database unavailable")
	ErrInvalidTransition  = orderflow.ErrInvalidTransition

	ErrInvalidDelta        = errors.New("delta must be non-zero")
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrRefOrderRequired    = errors.New("ref_order_id is required for sale movements")
	ErrReasonRequired      = errors.New("reason is required")
	ErrInvalidLimitType    = errors.New("invalid limit type")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidInput        = errors.New("invalid input")
	ErrStockInconsistent   = errors.New("stock does not match movement history")
)

// LimitExceededError carries the counts behind a rejected quota check.
type LimitExceededError struct {
	LimitType string
	Current   int64
	Limit     int64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit exceeded: %d of %d", e.LimitType, e.Current, e.Limit)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	code, name := pgErrorCode(err)
	return code == pgUniqueViolation && (constraint == "" || name == constraint)
}

func isForeignKeyViolation(err error) bool {
	code, _ := pgErrorCode(err)
	return code == pgForeignKeyViolation
}

func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// dbError wraps err with op, tagging transport failures with ErrConnectivity
// and missing rows with ErrNotFound.
func dbError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isConnectivityError(err):
		return fmt.Errorf("%s: %w: %w", op, ErrConnectivity, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
