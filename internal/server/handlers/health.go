package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinelog/internal/database"
)

// Health reports service and database health.
func Health(c *gin.Context) {
	dbStatus := "ok"
	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "unavailable"
		}
	} else {
		dbStatus = "uninitialized"
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   "up",
		"database": dbStatus,
	})
}

// Home serves basic API information on the root path.
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api":         "Cinelog API",
		"version":     "1.0.0",
		"description": "A personal movie tracking API",
		"documentation": gin.H{
			"users":     "/api/users",
			"movies":    "/api/movies",
			"watchlist": "/api/users/:id/watchlist",
			"watched":   "/api/users/:id/watched",
			"stats":     "/api/users/:id/stats",
			"health":    "/api/health",
		},
	})
}
