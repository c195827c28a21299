package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
)

// WatchlistItem is the joined interaction/movie projection served on
// watchlist reads.
type WatchlistItem struct {
	ID        uint      `json:"id"`
	MovieID   uint      `json:"movie_id"`
	Title     string    `json:"title"`
	Director  string    `json:"director"`
	Year      int       `json:"year"`
	Genre     string    `json:"genre"`
	Cover     *string   `json:"cover"`
	DateAdded time.Time `json:"date_added"`
}

// WatchedItem is the joined interaction/movie projection served on watched
// reads.
type WatchedItem struct {
	ID          uint       `json:"id"`
	MovieID     uint       `json:"movie_id"`
	Title       string     `json:"title"`
	Director    string     `json:"director"`
	Year        int        `json:"year"`
	Genre       string     `json:"genre"`
	Cover       *string    `json:"cover"`
	DateWatched *time.Time `json:"date_watched"`
	Rating      *int       `json:"rating"`
	Notes       *string    `json:"notes"`
}

// findInteraction returns the single row for a (user, movie) pair, or nil
// when none exists yet.
func findInteraction(tx *gorm.DB, userID, movieID uint) (*database.Interaction, error) {
	var interaction database.Interaction
	err := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&interaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FromDB("find interaction", err)
	}
	return &interaction, nil
}

// checkPairExists verifies that both sides of the (user, movie) pair exist.
func checkPairExists(tx *gorm.DB, userID, movieID uint) error {
	if _, err := GetUser(tx, userID); err != nil {
		return err
	}
	var movie database.Movie
	if err := tx.First(&movie, movieID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("Movie", movieID)
		}
		return apperr.FromDB("get movie", err)
	}
	return nil
}

// AddToWatchlist puts a movie on a user's watchlist. Repeated calls are
// idempotent: an existing row keeps its watched state and only has the
// watchlist flag and date_added refreshed.
func AddToWatchlist(tx *gorm.DB, userID, movieID uint) (*database.Interaction, error) {
	if err := checkPairExists(tx, userID, movieID); err != nil {
		return nil, err
	}

	existing, err := findInteraction(tx, userID, movieID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		now := time.Now()
		updates := map[string]interface{}{
			"in_watchlist": true,
			"date_added":   now,
		}
		if err := tx.Model(existing).Updates(updates).Error; err != nil {
			return nil, apperr.FromDB("add to watchlist", err)
		}
		existing.InWatchlist = true
		existing.DateAdded = now
		return existing, nil
	}

	interaction := database.Interaction{
		UserID:      userID,
		MovieID:     movieID,
		InWatchlist: true,
		DateAdded:   time.Now(),
	}
	if err := tx.Create(&interaction).Error; err != nil {
		return nil, apperr.FromDB("add to watchlist", err)
	}
	return &interaction, nil
}

// RemoveFromWatchlist clears the watchlist flag on the interaction found by
// its id, the user id and in_watchlist=true. The row itself survives so any
// watched-state history is preserved.
func RemoveFromWatchlist(tx *gorm.DB, userID, itemID uint) error {
	var interaction database.Interaction
	err := tx.Where("id = ? AND user_id = ? AND in_watchlist = ?", itemID, userID, true).
		First(&interaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NewNotFound("Watchlist item", itemID)
	}
	if err != nil {
		return apperr.FromDB("remove from watchlist", err)
	}

	if err := tx.Model(&interaction).Update("in_watchlist", false).Error; err != nil {
		return apperr.FromDB("remove from watchlist", err)
	}
	return nil
}

// MarkWatched upserts the interaction row for a (user, movie) pair with
// watched state. A movie can be marked watched without ever having been on
// the watchlist.
func MarkWatched(tx *gorm.DB, userID, movieID uint, rating *int, notes *string, dateWatched time.Time) (*database.Interaction, error) {
	if err := checkPairExists(tx, userID, movieID); err != nil {
		return nil, err
	}

	existing, err := findInteraction(tx, userID, movieID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		updates := map[string]interface{}{
			"watched":      true,
			"date_watched": dateWatched,
			"rating":       rating,
			"notes":        notes,
		}
		if err := tx.Model(existing).Updates(updates).Error; err != nil {
			return nil, apperr.FromDB("mark watched", err)
		}
		existing.Watched = true
		existing.DateWatched = &dateWatched
		existing.Rating = rating
		existing.Notes = notes
		return existing, nil
	}

	interaction := database.Interaction{
		UserID:      userID,
		MovieID:     movieID,
		Watched:     true,
		DateWatched: &dateWatched,
		Rating:      rating,
		Notes:       notes,
	}
	if err := tx.Create(&interaction).Error; err != nil {
		return nil, apperr.FromDB("mark watched", err)
	}
	return &interaction, nil
}

// RemoveFromWatched clears the watched flag on the interaction found by its
// id, the user id and watched=true. Watched-state fields have no meaning
// outside the watched state, so date_watched, rating and notes are reset.
func RemoveFromWatched(tx *gorm.DB, userID, itemID uint) error {
	var interaction database.Interaction
	err := tx.Where("id = ? AND user_id = ? AND watched = ?", itemID, userID, true).
		First(&interaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NewNotFound("Watched item", itemID)
	}
	if err != nil {
		return apperr.FromDB("remove from watched", err)
	}

	updates := map[string]interface{}{
		"watched":      false,
		"date_watched": nil,
		"rating":       nil,
		"notes":        nil,
	}
	if err := tx.Model(&interaction).Updates(updates).Error; err != nil {
		return apperr.FromDB("remove from watched", err)
	}
	return nil
}

// ListWatchlist returns the user's current watchlist: in_watchlist=true and
// watched=false, joined with the movie projection.
func ListWatchlist(tx *gorm.DB, userID uint) ([]WatchlistItem, error) {
	if _, err := GetUser(tx, userID); err != nil {
		return nil, err
	}

	var interactions []database.Interaction
	err := tx.Preload("Movie").
		Where("user_id = ? AND in_watchlist = ? AND watched = ?", userID, true, false).
		Find(&interactions).Error
	if err != nil {
		return nil, apperr.FromDB("list watchlist", err)
	}

	items := make([]WatchlistItem, 0, len(interactions))
	for _, interaction := range interactions {
		items = append(items, WatchlistItem{
			ID:        interaction.ID,
			MovieID:   interaction.Movie.ID,
			Title:     interaction.Movie.Title,
			Director:  interaction.Movie.Director,
			Year:      interaction.Movie.Year,
			Genre:     interaction.Movie.Genre,
			Cover:     interaction.Movie.Cover,
			DateAdded: interaction.DateAdded,
		})
	}
	return items, nil
}

// ListWatched returns the user's watched movies regardless of watchlist
// status, joined with the movie projection.
func ListWatched(tx *gorm.DB, userID uint) ([]WatchedItem, error) {
	if _, err := GetUser(tx, userID); err != nil {
		return nil, err
	}

	var interactions []database.Interaction
	err := tx.Preload("Movie").
		Where("user_id = ? AND watched = ?", userID, true).
		Find(&interactions).Error
	if err != nil {
		return nil, apperr.FromDB("list watched", err)
	}

	items := make([]WatchedItem, 0, len(interactions))
	for _, interaction := range interactions {
		items = append(items, WatchedItem{
			ID:          interaction.ID,
			MovieID:     interaction.Movie.ID,
			Title:       interaction.Movie.Title,
			Director:    interaction.Movie.Director,
			Year:        interaction.Movie.Year,
			Genre:       interaction.Movie.Genre,
			Cover:       interaction.Movie.Cover,
			DateWatched: interaction.DateWatched,
			Rating:      interaction.Rating,
			Notes:       interaction.Notes,
		})
	}
	return items, nil
}
