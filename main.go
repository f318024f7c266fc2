package main

import (
	"log"

	"spacedodge/config"
	"spacedodge/handlers"
	"spacedodge/middleware"
	"spacedodge/models"
	"spacedodge/routes"
	"spacedodge/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Score{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis (nil when disabled)
	redisClient := config.InitRedis(cfg)
	if redisClient == nil {
		log.Printf("Redis disabled, leaderboard reads go straight to the database")
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	scoreService := services.NewScoreService(db, services.NewLeaderboardCache(redisClient, cfg.LeaderboardCacheTTL))

	// Initialize WebSocket hub
	hub := services.NewHub(scoreService)
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	scoreHandler := handlers.NewScoreHandler(scoreService, hub)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, scoreHandler, hub, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on %s", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
