// Package handlers contains the stateless gin handlers mapping HTTP
// verbs and paths onto store operations.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"cinelog/internal/apperr"
)

// parseIDParam normalizes a path parameter to a numeric id. Path and query
// ids arrive as strings and are converted before any ownership comparison.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apperr.NewValidation("Invalid "+name, name).ToGinResponse(c)
		return 0, false
	}
	return uint(id), true
}

// requireUserIDQuery reads the mandatory user_id query parameter.
func requireUserIDQuery(c *gin.Context) (uint, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		apperr.NewValidation("user_id parameter is required", "user_id").ToGinResponse(c)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apperr.NewValidation("Invalid user_id", "user_id").ToGinResponse(c)
		return 0, false
	}
	return uint(id), true
}
