package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
)

// MovieInput carries the fields needed to create a catalog entry.
type MovieInput struct {
	Title       string
	Genre       string
	Director    string
	Year        int
	Description string
	Cover       *string
	UserID      uint
}

// CreateMovie adds a movie to the owner's catalog and atomically puts it on
// their watchlist. The returned interaction is the auto-created watchlist
// entry.
func CreateMovie(tx *gorm.DB, in MovieInput) (*database.Movie, *database.Interaction, error) {
	if _, err := GetUser(tx, in.UserID); err != nil {
		return nil, nil, err
	}

	movie := database.Movie{
		Title:       in.Title,
		Genre:       in.Genre,
		Director:    in.Director,
		Year:        in.Year,
		Description: in.Description,
		Cover:       in.Cover,
		UserID:      in.UserID,
	}
	if err := tx.Create(&movie).Error; err != nil {
		return nil, nil, apperr.FromDB("create movie", err)
	}

	interaction := database.Interaction{
		UserID:      in.UserID,
		MovieID:     movie.ID,
		InWatchlist: true,
		Watched:     false,
		DateAdded:   time.Now(),
	}
	if err := tx.Create(&interaction).Error; err != nil {
		return nil, nil, apperr.FromDB("create watchlist entry", err)
	}

	return &movie, &interaction, nil
}

// GetMovie fetches a movie by id, enforcing ownership. A movie owned by a
// different user yields a forbidden error without exposing its fields.
func GetMovie(tx *gorm.DB, id, requestingUserID uint) (*database.Movie, error) {
	var movie database.Movie
	if err := tx.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Movie", id)
		}
		return nil, apperr.FromDB("get movie", err)
	}

	if movie.UserID != requestingUserID {
		return nil, apperr.NewForbidden("Unauthorized access to this movie")
	}

	return &movie, nil
}

// ListMovies returns all movies owned by the given user.
func ListMovies(tx *gorm.DB, userID uint) ([]database.Movie, error) {
	var movies []database.Movie
	if err := tx.Where("user_id = ?", userID).Find(&movies).Error; err != nil {
		return nil, apperr.FromDB("list movies", err)
	}
	return movies, nil
}

// DeleteMovie removes a movie after the same ownership check as GetMovie
// and cascades the deletion to every interaction referencing it.
func DeleteMovie(tx *gorm.DB, id, requestingUserID uint) error {
	movie, err := GetMovie(tx, id, requestingUserID)
	if err != nil {
		return err
	}

	if err := tx.Where("movie_id = ?", movie.ID).Delete(&database.Interaction{}).Error; err != nil {
		return apperr.FromDB("delete movie", err)
	}
	if err := tx.Delete(&database.Movie{}, movie.ID).Error; err != nil {
		return apperr.FromDB("delete movie", err)
	}

	return nil
}
