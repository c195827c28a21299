package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cinelog/internal/database"
	"cinelog/internal/server"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	return server.SetupRouter()
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func createUser(t *testing.T, r *gin.Engine, username string) uint {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/users", gin.H{"username": username})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func createMovie(t *testing.T, r *gin.Engine, userID uint, title, genre string) (movieID, watchlistItemID uint) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/movies", gin.H{
		"title":       title,
		"genre":       genre,
		"director":    "Someone",
		"year":        2000,
		"description": "desc",
		"user_id":     userID,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	body := decodeBody(t, w)
	return uint(body["id"].(float64)), uint(body["watchlist_item_id"].(float64))
}

func TestCreateUser(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/users", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "alice", body["username"])
	assert.NotEmpty(t, body["created"])
}

func TestCreateUserDuplicateYields409AndNoNewRow(t *testing.T) {
	r := setupRouter(t)
	createUser(t, r, "alice")

	w := doJSON(r, http.MethodPost, "/api/users", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 1)
}

func TestCreateUserMissingUsername(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/users", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/users/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserIncludesStats(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")
	createMovie(t, r, userID, "Alien", "Horror")

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, float64(1), body["watchlist_count"])
	assert.Equal(t, float64(0), body["watched_count"])
	stats, ok := body["stats"].(map[string]interface{})
	require.True(t, ok, "stats block must be nested")
	assert.Equal(t, float64(0), stats["total_watched"])
}

func TestCreateMovieAutoWatchlists(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")
	_, itemID := createMovie(t, r, userID, "Alien", "Horror")
	assert.NotZero(t, itemID)

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/watchlist", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Alien", items[0]["title"])
}

func TestCreateMovieMissingFields(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")

	w := doJSON(r, http.MethodPost, "/api/movies", gin.H{
		"title":   "Alien",
		"user_id": userID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMovieOwnershipMismatchDoesNotLeakFields(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, r, "alice")
	intruder := createUser(t, r, "bob")
	movieID, _ := createMovie(t, r, owner, "Secret Movie", "Drama")

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/movies/%d?user_id=%d", movieID, intruder), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "Secret Movie")
}

func TestListMoviesRequiresUserID(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/movies", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMovieIncludesSplitGenres(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")
	movieID, _ := createMovie(t, r, userID, "Alien", "Horror, Sci-Fi")

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/movies/%d?user_id=%d", movieID, userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	genres, ok := body["genres"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Horror", "Sci-Fi"}, genres)
}

func TestDeleteMovieRemovesWatchlistEntry(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")
	movieID, _ := createMovie(t, r, userID, "Alien", "Horror")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/movies/%d?user_id=%d", movieID, userID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/watchlist", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 0)
}

func TestWatchedFlow(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")
	movieID, _ := createMovie(t, r, userID, "Alien", "Horror, Sci-Fi")

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/users/%d/watched", userID), gin.H{
		"movie_id": movieID,
		"rating":   5,
		"notes":    "great",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	// Watched list shows the movie with its rating
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/watched", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, float64(5), items[0]["rating"])
	itemID := uint(items[0]["id"].(float64))

	// A watched movie is no longer "currently on watchlist"
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/watchlist", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var watchlist []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &watchlist))
	assert.Len(t, watchlist, 0)

	// Un-watching clears the watched-state fields but keeps the row
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/users/%d/watched/%d", userID, itemID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/watched", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 0)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/watchlist", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &watchlist))
	assert.Len(t, watchlist, 1, "the interaction row survives un-watching")
}

func TestMarkWatchedDateLayouts(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"rfc3339", "2016-05-21T10:30:00Z", "2016-05-21T10:30:00Z"},
		{"bare datetime", "2016-05-21T10:30:00", "2016-05-21T10:30:00Z"},
		{"date only", "2016-05-21", "2016-05-21T00:00:00Z"},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			movieID, _ := createMovie(t, r, userID, fmt.Sprintf("Movie %d", i), "Drama")

			w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/users/%d/watched", userID), gin.H{
				"movie_id":     movieID,
				"date_watched": tc.raw,
			})
			require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

			var interaction database.Interaction
			require.NoError(t, database.GetDB().
				Where("user_id = ? AND movie_id = ?", userID, movieID).First(&interaction).Error)
			require.NotNil(t, interaction.DateWatched)
			assert.Equal(t, tc.want, interaction.DateWatched.UTC().Format(time.RFC3339))
		})
	}
}

func TestMarkWatchedUnparsableDateDefaultsToNow(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")
	movieID, _ := createMovie(t, r, userID, "Alien", "Horror")

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/users/%d/watched", userID), gin.H{
		"movie_id":     movieID,
		"date_watched": "not-a-date",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var interaction database.Interaction
	require.NoError(t, database.GetDB().
		Where("user_id = ? AND movie_id = ?", userID, movieID).First(&interaction).Error)
	require.NotNil(t, interaction.DateWatched)
	assert.WithinDuration(t, time.Now(), *interaction.DateWatched, 5*time.Second)
}

func TestRemoveFromWatchlistThenGone(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")
	_, itemID := createMovie(t, r, userID, "Alien", "Horror")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/users/%d/watchlist/%d", userID, itemID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Second removal finds nothing
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/users/%d/watchlist/%d", userID, itemID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r := setupRouter(t)
	userID := createUser(t, r, "alice")
	first, _ := createMovie(t, r, userID, "Heat", "Action, Drama")
	second, _ := createMovie(t, r, userID, "Commando", "Action")

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/users/%d/watched", userID), gin.H{
		"movie_id": first,
		"rating":   4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/users/%d/watched", userID), gin.H{
		"movie_id": second,
		"rating":   2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/stats", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	assert.Equal(t, float64(2), body["total_watched"])
	assert.Equal(t, float64(3), body["average_rating"])

	genres, ok := body["genres"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), genres["Action"])
	assert.Equal(t, float64(1), genres["Drama"])

	recent, ok := body["recently_watched"].([]interface{})
	require.True(t, ok, "recently_watched must be nested in the stats response")
	assert.Len(t, recent, 2)
}

func TestStatsUnknownUser(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/users/77/stats", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHomeAdvertisesEndpoints(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	docs, ok := body["documentation"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/api/users", docs["users"])
	assert.Equal(t, "/api/movies", docs["movies"])
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["database"])
}
