package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vibeprint/storefront/pkg/logger"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// LoggingMiddleware logs each request and stores a request-scoped logger in
// the gin context.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		log := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
		})

		log.Debug("Incoming request", map[string]interface{}{
			"user_agent": c.Request.UserAgent(),
			"query":      c.Request.URL.RawQuery,
		})

		c.Set(loggerKey, log)

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		fields := map[string]interface{}{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"body_size":   c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		msg := "Request completed"
		switch {
		case statusCode >= 500:
			log.Error(msg, nil, fields)
		case statusCode >= 400:
			log.Warn(msg, fields)
		default:
			log.Info(msg, fields)
		}
	}
}

// GetLoggerFromContext returns the request logger, or the global one outside
// LoggingMiddleware.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if log, exists := c.Get(loggerKey); exists {
		if l, ok := log.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
