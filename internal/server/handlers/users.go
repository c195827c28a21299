package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
	"cinelog/internal/store"
)

type createUserRequest struct {
	Username string `json:"username"`
}

// ListUsers returns all users.
func ListUsers(c *gin.Context) {
	users, err := store.ListUsers(database.GetDB())
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, user := range users {
		list = append(list, gin.H{"id": user.ID, "username": user.Username})
	}
	c.JSON(http.StatusOK, list)
}

// GetUser returns one user together with their derived statistics.
func GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user *database.User
	var stats *store.Stats
	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		if user, err = store.GetUser(tx, id); err != nil {
			return err
		}
		stats, err = store.GetStats(tx, id)
		return err
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              user.ID,
		"username":        user.Username,
		"created":         user.CreatedAt.Format(time.RFC3339),
		"updated":         user.UpdatedAt.Format(time.RFC3339),
		"watchlist_count": stats.WatchlistCount,
		"watched_count":   stats.TotalWatched,
		"stats":           stats,
	})
}

// CreateUser creates a new user. Duplicate usernames yield 409.
func CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		apperr.NewValidation("Username is required", "username").ToGinResponse(c)
		return
	}

	var user *database.User
	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		user, err = store.CreateUser(tx, req.Username)
		return err
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"created":  user.CreatedAt.Format(time.RFC3339),
	})
}

// DeleteUser removes a user and cascades to their movies and interactions.
func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		return store.DeleteUser(tx, id)
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User %d deleted successfully", id)})
}
