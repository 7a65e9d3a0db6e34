package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mesapos/api/internal/middleware"
	"github.com/mesapos/api/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	LimitType string `json:"limit_type,omitempty"`
	Current   *int64 `json:"current,omitempty"`
	Limit     *int64 `json:"limit,omitempty"`
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrInvalidDelta) ||
		errors.Is(err, service.ErrInvalidMovementType) ||
		errors.Is(err, service.ErrRefOrderRequired) ||
		errors.Is(err, service.ErrReasonRequired) ||
		errors.Is(err, service.ErrInvalidLimitType) ||
		errors.Is(err, service.ErrInvalidRole) ||
		errors.Is(err, service.ErrInvalidInput)
}

// writeServiceError maps a service error to its HTTP status. Anything
// unrecognized is logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var limitErr *service.LimitExceededError
	switch {
	case errors.As(err, &limitErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:     err.Error(),
			Code:      "LIMIT_EXCEEDED",
			LimitType: limitErr.LimitType,
			Current:   &limitErr.Current,
			Limit:     &limitErr.Limit,
		})
	case errors.Is(err, service.ErrLimitExceeded):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "LIMIT_EXCEEDED"})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAccountBlocked):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error(), Code: "ACCOUNT_BLOCKED"})
	case errors.Is(err, service.ErrDuplicateMovement):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "DUPLICATE_MOVEMENT"})
	case errors.Is(err, service.ErrAlreadyHasBusiness):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "ALREADY_HAS_BUSINESS"})
	case errors.Is(err, service.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "INVALID_TRANSITION"})
	case errors.Is(err, service.ErrConnectivity):
		log.Warn("database unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service temporarily unavailable"})
	default:
		log.Error("unhandled service error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// actorID returns the authenticated user, writing 401 when there is none.
func actorID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// urlUUID parses a chi URL parameter, writing 400 when it is not a UUID.
func urlUUID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + label})
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// parseDecimal parses an optional decimal string field; "" is zero.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func numericToString(n pgtype.Numeric, places int32) string {
	if !n.Valid {
		return decimal.Zero.StringFixed(places)
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero.StringFixed(places)
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero.StringFixed(places)
	}
	return d.StringFixed(places)
}
