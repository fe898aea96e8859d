package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "RequestID"

// RequestLogger 为每个请求生成 request id，请求结束后输出状态、耗时和 handler 记录的错误
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"elapsed", time.Since(start),
		}
		if len(c.Errors) == 0 {
			logger.Info("request", attrs...)
			return
		}
		for _, e := range c.Errors {
			logger.Error("request", append(attrs, "err", e.Err)...)
		}
	}
}
