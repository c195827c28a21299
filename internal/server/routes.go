// This file contains all API route definitions organized by resource.
package server

import (
	"github.com/gin-gonic/gin"

	"cinelog/internal/server/handlers"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/", handlers.Home)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)

		users := api.Group("/users")
		{
			users.GET("", handlers.ListUsers)
			users.POST("", handlers.CreateUser)
			users.GET("/:id", handlers.GetUser)
			users.DELETE("/:id", handlers.DeleteUser)

			users.GET("/:id/watchlist", handlers.GetWatchlist)
			users.POST("/:id/watchlist", handlers.AddToWatchlist)
			users.DELETE("/:id/watchlist/:item_id", handlers.RemoveFromWatchlist)

			users.GET("/:id/watched", handlers.GetWatched)
			users.POST("/:id/watched", handlers.MarkWatched)
			users.DELETE("/:id/watched/:item_id", handlers.RemoveFromWatched)

			users.GET("/:id/stats", handlers.GetUserStats)
		}

		movies := api.Group("/movies")
		{
			movies.GET("", handlers.ListMovies)
			movies.POST("", handlers.CreateMovie)
			movies.GET("/:id", handlers.GetMovie)
			movies.DELETE("/:id", handlers.DeleteMovie)
		}
	}
}
