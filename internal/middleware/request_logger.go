package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"cinelog/internal/logger"
)

// RequestLogger logs HTTP requests and their outcomes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Health checks are noise
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		duration := time.Since(start)
		logger.InfoStructured("HTTP request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.String("duration", duration.String()),
			logger.String("request_id", c.GetString("request_id")),
			logger.String("ip", c.ClientIP()))
	}
}

// ErrorLogger logs errors recorded on the gin context.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			logger.ErrorStructured("request error",
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
				logger.Err("error", err.Err))
		}
	}
}
