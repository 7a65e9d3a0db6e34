package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"go.uber.org/zap"
)

// QuotaStore defines the DB methods needed to evaluate plan limits.
type QuotaStore interface {
	GetBusinessLimits(ctx context.Context, id uuid.UUID) (database.GetBusinessLimitsRow, error)
	CountActiveProducts(ctx context.Context, businessID uuid.UUID) (int64, error)
	CountPaidPaymentsInWindow(ctx context.Context, arg database.CountPaidPaymentsInWindowParams) (int64, error)
	CountMemberships(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// LimitEnforcer rejects a creation that would exceed a plan limit.
type LimitEnforcer interface {
	Enforce(ctx context.Context, businessID uuid.UUID, limitType string) error
}

// LimitCheck is the outcome of a quota lookup.
type LimitCheck struct {
	Allowed   bool   `json:"allowed"`
	Current   int64  `json:"current"`
	Limit     int64  `json:"limit"`
	LimitType string `json:"limit_type"`
}

// QuotaService evaluates soft plan limits. The check is not atomic with the
// creation it guards, so concurrent creators can overshoot by a small amount.
type QuotaService struct {
	store QuotaStore
	loc   *time.Location
	now   func() time.Time
	log   *zap.Logger
}

// NewQuotaService creates a QuotaService. loc bounds the orders_day window;
// nil means UTC.
func NewQuotaService(store QuotaStore, loc *time.Location, log *zap.Logger) *QuotaService {
	if loc == nil {
		loc = time.UTC
	}
	return &QuotaService{store: store, loc: loc, now: time.Now, log: log}
}

// IsLimitType reports whether t is a known limit type.
func IsLimitType(t string) bool {
	switch t {
	case enum.LimitProducts, enum.LimitOrdersDay, enum.LimitUsers:
		return true
	}
	return false
}

// CheckLimit counts the business's current usage and compares it with the
// configured limit, or the default when none is set. allowed = current < limit.
func (s *QuotaService) CheckLimit(ctx context.Context, businessID uuid.UUID, limitType string) (*LimitCheck, error) {
	if !IsLimitType(limitType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLimitType, limitType)
	}

	limits, err := s.store.GetBusinessLimits(ctx, businessID)
	if err != nil {
		return nil, dbError("get business limits", err)
	}

	var (
		current int64
		limit   int64
	)
	switch limitType {
	case enum.LimitProducts:
		limit = limitOrDefault(limits.LimitsProducts, enum.DefaultLimitProducts)
		current, err = s.store.CountActiveProducts(ctx, businessID)
	case enum.LimitOrdersDay:
		limit = limitOrDefault(limits.LimitsOrdersDay, enum.DefaultLimitOrdersDay)
		from, to := s.todayWindow()
		current, err = s.store.CountPaidPaymentsInWindow(ctx, database.CountPaidPaymentsInWindowParams{
			BusinessID: businessID,
			PaidFrom:   from,
			PaidTo:     to,
		})
	case enum.LimitUsers:
		limit = limitOrDefault(limits.LimitsUsers, enum.DefaultLimitUsers)
		current, err = s.store.CountMemberships(ctx, businessID)
	}
	if err != nil {
		return nil, dbError("count "+limitType, err)
	}

	return &LimitCheck{
		Allowed:   current < limit,
		Current:   current,
		Limit:     limit,
		LimitType: limitType,
	}, nil
}

// Enforce returns a *LimitExceededError when CheckLimit disallows.
func (s *QuotaService) Enforce(ctx context.Context, businessID uuid.UUID, limitType string) error {
	check, err := s.CheckLimit(ctx, businessID, limitType)
	if err != nil {
		return err
	}
	if !check.Allowed {
		s.log.Info("limit reached",
			zap.String("business_id", businessID.String()),
			zap.String("limit_type", limitType),
			zap.Int64("current", check.Current),
			zap.Int64("limit", check.Limit),
		)
		return &LimitExceededError{LimitType: limitType, Current: check.Current, Limit: check.Limit}
	}
	return nil
}

// todayWindow is [local midnight, now) in the business time zone.
func (s *QuotaService) todayWindow() (time.Time, time.Time) {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return start, now
}

func limitOrDefault(v pgtype.Int4, fallback int64) int64 {
	if !v.Valid {
		return fallback
	}
	return int64(v.Int32)
}
