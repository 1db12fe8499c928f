package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/prescription-api/pkg/errors"
	"github.com/jwalitptl/prescription-api/pkg/logger"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ErrorHandler is the single failure-to-status mapping point. Handlers push
// typed errors onto the gin context; everything else becomes a 500 with the
// internal detail logged, not returned.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		cid := c.GetString(ContextCorrelationID)
		lastErr := c.Errors.Last()

		status := http.StatusInternalServerError
		message := "internal server error"
		if appErr, ok := apperrors.AsAppError(lastErr.Err); ok {
			status = appErr.StatusCode()
			message = appErr.Message
		}

		logger.FromContext(c.Request.Context()).Error().
			Err(lastErr.Err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status", status).
			Msg("request error")

		c.JSON(status, ErrorResponse{
			Code:          status,
			Message:       message,
			CorrelationID: cid,
		})
	}
}
