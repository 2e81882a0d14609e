package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minjk/moamall-backend/pkg/logger"
)

const loggerKey = "request_logger"

// RequestLogger attaches a request-scoped logger carrying a request ID and
// logs one line per completed request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		reqLogger := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(loggerKey, reqLogger)

		c.Next()

		fields := map[string]interface{}{
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= 500:
			reqLogger.Error("Request failed", nil, fields)
		case c.Writer.Status() >= 400:
			reqLogger.Warn("Request rejected", fields)
		default:
			reqLogger.Info("Request completed", fields)
		}
	}
}

// GetLoggerFromContext returns the request-scoped logger, falling back to
// the global one outside a request.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if value, exists := c.Get(loggerKey); exists {
		if reqLogger, ok := value.(*logger.Logger); ok {
			return reqLogger
		}
	}
	return logger.Get()
}
