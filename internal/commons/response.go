package commons

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wego/internal/dto"
	apperrors "wego/internal/errors"
)

// Trace returns the request trace id and a logger carrying it. The chi
// request id is reused when present.
func Trace(r *http.Request, logger *zap.Logger) (string, *zap.Logger) {
	traceID := middleware.GetReqID(r.Context())
	if traceID == "" {
		traceID = uuid.New().String()
	}
	return traceID, logger.With(zap.String("traceId", traceID))
}

// DecodeJSON decodes the body into dst. On failure the 400 response has
// already been written and false is returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		WriteValidationError(w, logger, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

// UintParam parses a positive integer path parameter, writing a 400 on failure.
func UintParam(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		logger.Warn("invalid path parameter", zap.String("param", name), zap.String("value", raw))
		WriteValidationError(w, logger, "invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// HandleError maps application errors to HTTP responses.
func HandleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, logger, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsInvalidStatusError(err); ok {
		WriteError(w, traceID, http.StatusBadRequest, "INVALID_STATUS", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		WriteError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsUnauthorizedError(err); ok {
		WriteError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		WriteError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		WriteError(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	WriteError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
}

func WriteError(w http.ResponseWriter, traceID string, status int, code, message string, logger *zap.Logger) {
	WriteJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}, logger)
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func WriteValidationError(w http.ResponseWriter, logger *zap.Logger, message string, details ...apperrors.ValidationDetail) {
	if details == nil {
		details = []apperrors.ValidationDetail{}
	}
	WriteJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}, logger)
}

func WriteJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
