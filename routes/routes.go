package routes

import (
	"log"
	"net/http"

	"spacedodge/handlers"
	"spacedodge/middleware"
	"spacedodge/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	scoreHandler *handlers.ScoreHandler,
	hub *services.Hub,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", middleware.AuthMiddleware(jwtSecret), authHandler.GetProfile)
		}

		scores := api.Group("/scores")
		{
			// Identity is optional here so an anonymous submit gets a
			// null id instead of a bare 401.
			scores.POST("", middleware.OptionalAuth(jwtSecret), scoreHandler.SubmitScore)
			scores.GET("/top", scoreHandler.GetTopScores)
		}
	}

	// WebSocket endpoint for live leaderboard updates
	router.GET("/ws/leaderboard", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the error response.
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		if hub.RegisterClient(conn) == nil {
			log.Printf("Leaderboard hub stopped, connection closed")
		}
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
