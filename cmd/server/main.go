package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sedhub/tender-insight-api/internal/api"
	"github.com/sedhub/tender-insight-api/internal/cache"
	"github.com/sedhub/tender-insight-api/internal/database"
	"github.com/sedhub/tender-insight-api/internal/logger"
	"github.com/sedhub/tender-insight-api/internal/middleware"
	"github.com/sedhub/tender-insight-api/pkg/config"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.New()
	appLogger := logger.NewSimpleLogger()

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize cache backend. Redis when configured, otherwise a
	// process-local store; both are best-effort and never authoritative.
	var store cache.Cache
	if cfg.HasRedis() {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, appLogger)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer redisCache.Close()
		store = redisCache
	} else {
		appLogger.Warn("REDIS_URL not set, using in-memory cache")
		store = cache.NewMemoryCache()
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := gin.New()

	// Add security middleware
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg))

	// Add rate limiting in production
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware())
	}

	// Add recovery middleware
	r.Use(gin.Recovery())

	// Setup API routes
	if err := api.SetupRoutes(r, db, store, cfg); err != nil {
		log.Fatal("Failed to setup API routes:", err)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
