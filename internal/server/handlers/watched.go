package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
	"cinelog/internal/store"
)

type markWatchedRequest struct {
	MovieID     *uint   `json:"movie_id"`
	Rating      *int    `json:"rating"`
	Notes       *string `json:"notes"`
	DateWatched string  `json:"date_watched"`
}

// parseWatchedDate accepts RFC 3339 timestamps with or without an offset
// and falls back to the current time when absent or unparsable.
func parseWatchedDate(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Now()
}

// GetWatched returns the user's watched movies.
func GetWatched(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var items []store.WatchedItem
	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		items, err = store.ListWatched(tx, userID)
		return err
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// MarkWatched marks a movie watched for the user, upserting the
// interaction row with rating, notes and the watch date.
func MarkWatched(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req markWatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MovieID == nil {
		apperr.NewValidation("Movie ID is required", "movie_id").ToGinResponse(c)
		return
	}

	dateWatched := parseWatchedDate(req.DateWatched)

	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		_, err := store.MarkWatched(tx, userID, *req.MovieID, req.Rating, req.Notes, dateWatched)
		return err
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Movie marked as watched"})
}

// RemoveFromWatched clears the watched state of one watched item,
// resetting its rating, notes and watch date.
func RemoveFromWatched(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		return store.RemoveFromWatched(tx, userID, itemID)
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Movie removed from watched list"})
}
