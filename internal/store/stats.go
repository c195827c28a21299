package store

import (
	"time"

	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
)

// Stats is the derived statistics block for one user. It is computed on
// read and never persisted.
type Stats struct {
	TotalWatched   int            `json:"total_watched"`
	Genres         map[string]int `json:"genres"`
	AverageRating  float64        `json:"average_rating"`
	WatchlistCount int            `json:"watchlist_count"`
}

// RecentMovie is one entry of the recently-watched list.
type RecentMovie struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	DateWatched *time.Time `json:"date_watched"`
	Rating      *int       `json:"rating"`
}

// GetStats computes the derived statistics for a user by scanning their
// watched interactions. The genre histogram counts every label of a
// movie's split genre set, so a movie tagged "Action, Drama" contributes to
// both. Unrated rows are excluded from the average entirely.
func GetStats(tx *gorm.DB, userID uint) (*Stats, error) {
	if _, err := GetUser(tx, userID); err != nil {
		return nil, err
	}

	var watched []database.Interaction
	err := tx.Preload("Movie").
		Where("user_id = ? AND watched = ?", userID, true).
		Find(&watched).Error
	if err != nil {
		return nil, apperr.FromDB("get stats", err)
	}

	stats := &Stats{
		TotalWatched: len(watched),
		Genres:       make(map[string]int),
	}

	ratingSum := 0
	ratingCount := 0
	for _, interaction := range watched {
		for _, genre := range interaction.Movie.Genres() {
			stats.Genres[genre]++
		}
		if interaction.Rating != nil {
			ratingSum += *interaction.Rating
			ratingCount++
		}
	}
	if ratingCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(ratingCount)
	}

	var watchlistCount int64
	err = tx.Model(&database.Interaction{}).
		Where("user_id = ? AND in_watchlist = ? AND watched = ?", userID, true, false).
		Count(&watchlistCount).Error
	if err != nil {
		return nil, apperr.FromDB("get stats", err)
	}
	stats.WatchlistCount = int(watchlistCount)

	return stats, nil
}

// RecentlyWatched returns the user's most recently watched movies ordered
// by date_watched descending.
func RecentlyWatched(tx *gorm.DB, userID uint, limit int) ([]RecentMovie, error) {
	var interactions []database.Interaction
	err := tx.Preload("Movie").
		Where("user_id = ? AND watched = ?", userID, true).
		Order("date_watched DESC").
		Limit(limit).
		Find(&interactions).Error
	if err != nil {
		return nil, apperr.FromDB("recently watched", err)
	}

	recent := make([]RecentMovie, 0, len(interactions))
	for _, interaction := range interactions {
		recent = append(recent, RecentMovie{
			ID:          interaction.Movie.ID,
			Title:       interaction.Movie.Title,
			DateWatched: interaction.DateWatched,
			Rating:      interaction.Rating,
		})
	}
	return recent, nil
}
