// Package handlers provides HTTP handler implementations for the public API.
//
// This file owns the response envelopes shared by every endpoint. All
// failures, whether a malformed tracking link or a scanner outage, come back
// in the same shape so operator tooling can switch on `code` instead of
// parsing messages:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "group not found"
//	}
//
// Success bodies are endpoint-specific JSON written through ok(); deletes and
// other bodiless successes use noContent().
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/go-phishsim-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// RequestID correlates server logs with client-side errors; Code is a stable,
// machine-readable string (see errors.go constants); Message is safe to show
// to an operator. The struct doubles as the Swagger schema for failures.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to operators)
	Message string `json:"message" example:"group not found"`
}

// fail aborts the request with the standard error envelope.
//
// The correlation id comes from the middleware stack via RequestIDFrom, so
// the envelope stays correlated even when a handler fails before the logger
// middleware stamped the response. Server errors (>= 500) are additionally
// logged through the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), for callers outside this package
// (router-level 404/405 handlers) that must emit the same envelope.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
