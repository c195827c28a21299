// Package server provides HTTP server functionality for the cinelog
// application.
package server

import (
	"github.com/gin-gonic/gin"

	"cinelog/internal/apperr"
	"cinelog/internal/config"
	"cinelog/internal/middleware"
)

// SetupRouter configures and returns the main router
func SetupRouter() *gin.Engine {
	r := gin.New()

	cfg := config.Get()

	if cfg.Server.EnableCORS {
		r.Use(corsMiddleware())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(apperr.Recovery())

	setupRoutes(r)

	return r
}

// corsMiddleware allows cross-origin requests on all routes.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
