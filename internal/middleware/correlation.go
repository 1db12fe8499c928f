package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/prescription-api/pkg/logger"
)

const (
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderXRequestID     = "X-Request-ID"
	ContextCorrelationID = "correlation_id"
)

// CorrelationID resolves the request's correlation id and scopes it to this
// request only. X-Correlation-ID wins over X-Request-ID; with neither, a
// fresh UUID is generated. The id rides the request context, so it is
// isolated between concurrent requests and dropped when handling ends on
// any path.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(HeaderXCorrelationID)
		if cid == "" {
			cid = c.GetHeader(HeaderXRequestID)
		}
		if cid == "" {
			cid = uuid.New().String()
		}

		c.Set(ContextCorrelationID, cid)

		ctx := logger.WithCorrelationValue(c.Request.Context(), cid)
		ctx = logger.WithCorrelationID(ctx, cid)
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderXCorrelationID, cid)
		c.Next()
	}
}
