// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints:
// the structured error envelope, consistent JSON serialization, and the
// mapping from service sentinel errors to HTTP status and code. Uniform
// responses for both success and failure keep the API predictable and
// machine-friendly.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "cattle not found"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-dairy-backend/internal/http/middleware"
	"github.com/tbourn/go-dairy-backend/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"cattle not found"`
}

// fail aborts the request with a structured error and logs server-side errors.
//
// Server errors (>=500) are logged with the request-scoped logger from
// middleware so the correlation id travels with them.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failSvc translates a service-layer sentinel error into the matching HTTP
// response. Unknown errors become opaque 500s so internals never leak.
func failSvc(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCattleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "cattle not found")
	case errors.Is(err, services.ErrRecordNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "record not found")
	case errors.Is(err, services.ErrNotificationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "notification not found")
	case errors.Is(err, services.ErrDuplicateProduction):
		fail(c, http.StatusConflict, ErrCodeDuplicateRecord, "production already recorded for this cattle, date and session")
	case errors.Is(err, services.ErrInvalidRange):
		fail(c, http.StatusBadRequest, ErrCodeInvalidRange, "start date is after end date")
	case errors.Is(err, services.ErrTerminalStatus):
		fail(c, http.StatusConflict, ErrCodeTerminalStatus, "status can no longer change")
	case errors.Is(err, services.ErrNegativeQuantity),
		errors.Is(err, services.ErrInvalidSession),
		errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
