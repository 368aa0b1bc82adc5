package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusFor maps an application error onto an HTTP status.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConcurrency), apperrors.IsConflict(err):
		return http.StatusConflict
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600:
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// writeError logs err and writes the JSON error body. Internal failures are
// reported to the caller with fallback only.
func writeError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()))
		body = gin.H{"error": fallback}
	case errors.Is(err, apperrors.ErrConcurrency):
		logger.Warn("Concurrent structural change", slog.String("error", err.Error()))
		c.Header("Retry-After", "1")
		body["retryable"] = true
	default:
		logger.Warn(fallback, slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(status, body)
}

// bindError answers a request whose body or query failed to bind.
func bindError(c *gin.Context, logger *slog.Logger, what string, err error) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + ": " + err.Error()})
}
