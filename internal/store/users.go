// Package store implements the data access layer: identity, catalog and
// interaction stores plus the statistics aggregator. Every operation runs
// against the *gorm.DB it is handed, which is the caller's unit of work,
// and reports failures as apperr errors.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"cinelog/internal/apperr"
	"cinelog/internal/database"
)

// CreateUser creates a new user with the given username. Duplicate
// usernames are rejected with a conflict error.
func CreateUser(tx *gorm.DB, username string) (*database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.NewValidation("Username is required", "username")
	}

	user := database.User{Username: username}
	if err := tx.Create(&user).Error; err != nil {
		dbErr := apperr.FromDB("create user", err)
		if dbErr.Code == apperr.CodeConflict {
			return nil, apperr.NewConflict("Username already exists")
		}
		return nil, dbErr
	}

	return &user, nil
}

// GetUser fetches a user by id.
func GetUser(tx *gorm.DB, id uint) (*database.User, error) {
	var user database.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("User", id)
		}
		return nil, apperr.FromDB("get user", err)
	}
	return &user, nil
}

// ListUsers returns all users.
func ListUsers(tx *gorm.DB) ([]database.User, error) {
	var users []database.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, apperr.FromDB("list users", err)
	}
	return users, nil
}

// DeleteUser removes a user together with their movies and every
// interaction referencing the user or those movies. Mirrors the movie
// cascade so no orphans survive either way.
func DeleteUser(tx *gorm.DB, id uint) error {
	if _, err := GetUser(tx, id); err != nil {
		return err
	}

	var movieIDs []uint
	if err := tx.Model(&database.Movie{}).Where("user_id = ?", id).Pluck("id", &movieIDs).Error; err != nil {
		return apperr.FromDB("delete user", err)
	}

	if len(movieIDs) > 0 {
		if err := tx.Where("movie_id IN ?", movieIDs).Delete(&database.Interaction{}).Error; err != nil {
			return apperr.FromDB("delete user", err)
		}
	}
	if err := tx.Where("user_id = ?", id).Delete(&database.Interaction{}).Error; err != nil {
		return apperr.FromDB("delete user", err)
	}
	if err := tx.Where("user_id = ?", id).Delete(&database.Movie{}).Error; err != nil {
		return apperr.FromDB("delete user", err)
	}
	if err := tx.Delete(&database.User{}, id).Error; err != nil {
		return apperr.FromDB("delete user", err)
	}

	return nil
}
