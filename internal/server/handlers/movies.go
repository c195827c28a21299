package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
	"cinelog/internal/store"
)

type createMovieRequest struct {
	Title       *string `json:"title"`
	Genre       *string `json:"genre"`
	Director    *string `json:"director"`
	Year        *int    `json:"year"`
	Description *string `json:"description"`
	Cover       *string `json:"cover"`
	UserID      *uint   `json:"user_id"`
}

// validate reports the first missing required field. Cover is optional.
func (r *createMovieRequest) validate() error {
	required := []struct {
		name  string
		unset bool
	}{
		{"title", r.Title == nil},
		{"genre", r.Genre == nil},
		{"director", r.Director == nil},
		{"year", r.Year == nil},
		{"description", r.Description == nil},
		{"user_id", r.UserID == nil},
	}
	for _, field := range required {
		if field.unset {
			return apperr.NewValidation("Missing required field: "+field.name, field.name)
		}
	}
	return nil
}

func movieJSON(movie *database.Movie) gin.H {
	return gin.H{
		"id":          movie.ID,
		"title":       movie.Title,
		"genre":       movie.Genre,
		"director":    movie.Director,
		"year":        movie.Year,
		"description": movie.Description,
		"cover":       movie.Cover,
	}
}

// ListMovies returns all movies owned by the requesting user. The user_id
// query parameter is required.
func ListMovies(c *gin.Context) {
	userID, ok := requireUserIDQuery(c)
	if !ok {
		return
	}

	movies, err := store.ListMovies(database.GetDB(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	list := make([]gin.H, 0, len(movies))
	for i := range movies {
		list = append(list, movieJSON(&movies[i]))
	}
	c.JSON(http.StatusOK, list)
}

// GetMovie returns one movie after verifying ownership. A mismatched
// user_id yields 403 without exposing any movie fields.
func GetMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserIDQuery(c)
	if !ok {
		return
	}

	movie, err := store.GetMovie(database.GetDB(), id, userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	body := movieJSON(movie)
	body["genres"] = movie.Genres()
	c.JSON(http.StatusOK, body)
}

// CreateMovie adds a movie to the owner's catalog. The movie is always
// auto-added to its creator's watchlist in the same unit of work.
func CreateMovie(c *gin.Context) {
	var req createMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.NewValidation("Invalid request body", "body").ToGinResponse(c)
		return
	}
	if err := req.validate(); err != nil {
		apperr.Respond(c, err)
		return
	}

	var movie *database.Movie
	var watchlistEntry *database.Interaction
	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		movie, watchlistEntry, err = store.CreateMovie(tx, store.MovieInput{
			Title:       *req.Title,
			Genre:       *req.Genre,
			Director:    *req.Director,
			Year:        *req.Year,
			Description: *req.Description,
			Cover:       req.Cover,
			UserID:      *req.UserID,
		})
		return err
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	body := movieJSON(movie)
	body["watchlist_item_id"] = watchlistEntry.ID
	c.JSON(http.StatusCreated, body)
}

// DeleteMovie removes a movie after the ownership check and cascades to
// its interactions.
func DeleteMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserIDQuery(c)
	if !ok {
		return
	}

	err := database.WithTransaction(c.Request.Context(), func(tx *gorm.DB) error {
		return store.DeleteMovie(tx, id, userID)
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Movie %d deleted successfully", id)})
}
