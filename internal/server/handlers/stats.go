package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
	"cinelog/internal/store"
)

const recentlyWatchedLimit = 5

// GetUserStats serves the derived statistics for a user. The
// recently-watched list is composed here on top of the stats primitive.
func GetUserStats(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var stats *store.Stats
	var recent []store.RecentMovie
	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		if stats, err = store.GetStats(tx, userID); err != nil {
			return err
		}
		recent, err = store.RecentlyWatched(tx, userID, recentlyWatchedLimit)
		return err
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_watched":    stats.TotalWatched,
		"genres":           stats.Genres,
		"average_rating":   stats.AverageRating,
		"watchlist_count":  stats.WatchlistCount,
		"recently_watched": recent,
	})
}
