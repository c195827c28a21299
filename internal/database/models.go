package database

import (
	"strings"
	"time"
)

// User owns a personal movie catalog and the interactions against it.
// Usernames are unique and immutable once accepted.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	Movies       []Movie       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Interactions []Interaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Movie is a catalog entry. Movies are visible only to the user who added
// them; there is no shared catalog.
type Movie struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Genre       string  `gorm:"not null" json:"genre"`
	Director    string  `gorm:"not null" json:"director"`
	Year        int     `gorm:"not null" json:"year"`
	Description string  `json:"description"`
	Cover       *string `json:"cover"`
	UserID      uint    `gorm:"not null;index" json:"user_id"`

	Interactions []Interaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Genres splits the comma-separated genre field into individual labels.
// An empty genre yields an empty slice, never [""].
func (m *Movie) Genres() []string {
	if m.Genre == "" {
		return []string{}
	}
	parts := strings.Split(m.Genre, ",")
	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		genres = append(genres, strings.TrimSpace(part))
	}
	return genres
}

// Interaction is the per-user-per-movie record tracking watchlist and
// watched state. At most one row exists per (user, movie) pair; writers
// must find-then-update rather than insert blindly.
//
// InWatchlist and Watched are independent flags. "Currently on watchlist"
// means in_watchlist AND NOT watched. Rating, notes and date_watched only
// carry meaning while Watched is set and are cleared when it is unset.
type Interaction struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_movie" json:"user_id"`
	MovieID     uint       `gorm:"not null;uniqueIndex:idx_user_movie" json:"movie_id"`
	InWatchlist bool       `gorm:"default:false" json:"in_watchlist"`
	Watched     bool       `gorm:"default:false" json:"watched"`
	DateAdded   time.Time  `json:"date_added"`
	DateWatched *time.Time `json:"date_watched"`
	Rating      *int       `json:"rating"`
	Notes       *string    `json:"notes"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Movie Movie `gorm:"foreignKey:MovieID" json:"-"`
}
