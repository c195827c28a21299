package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
	"cinelog/internal/store"
)

type watchlistRequest struct {
	MovieID *uint `json:"movie_id"`
}

// GetWatchlist returns the user's current watchlist.
func GetWatchlist(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var items []store.WatchlistItem
	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		items, err = store.ListWatchlist(tx, userID)
		return err
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddToWatchlist puts a movie on the user's watchlist. Repeated calls are
// idempotent.
func AddToWatchlist(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req watchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MovieID == nil {
		apperr.NewValidation("Movie ID is required", "movie_id").ToGinResponse(c)
		return
	}

	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		_, err := store.AddToWatchlist(tx, userID, *req.MovieID)
		return err
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Movie added to watchlist"})
}

// RemoveFromWatchlist clears the watchlist flag on one watchlist item.
func RemoveFromWatchlist(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		return store.RemoveFromWatchlist(tx, userID, itemID)
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Movie removed from watchlist"})
}
