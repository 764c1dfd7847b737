package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/auth"
	"github.com/sedhub/tender-insight-api/internal/cache"
	"github.com/sedhub/tender-insight-api/internal/database"
	"github.com/sedhub/tender-insight-api/internal/services"
	"github.com/sedhub/tender-insight-api/pkg/config"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, db *database.DB, store cache.Cache, cfg *config.Config) error {
	// Create centralized services
	svcs := services.NewServices(db.DB, store, cfg)

	// Create handlers with proper service injection
	authHandler := NewAuthHandler(svcs.Auth)
	profileHandler := NewProfileHandler(svcs.Profile)
	scoringHandler := NewScoringHandler(svcs.Scoring)
	tenderHandler := NewTenderHandler(svcs.Tenders)
	healthHandler := NewHealthHandler(db, store)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/refresh", authHandler.RefreshToken)
		public.POST("/auth/logout", authHandler.Logout)
		public.GET("/health", healthHandler.GetHealth)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))
	protected.Use(auth.CSRFMiddleware())
	{
		// Company profile endpoints
		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		// Readiness scoring endpoints
		protected.POST("/profiles/:id/score", scoringHandler.ComputeScore)
		protected.GET("/profiles/:id/score/latest", scoringHandler.GetLatestScore)
		protected.GET("/profiles/:id/score/history", scoringHandler.GetScoreHistory)
		protected.GET("/profiles/:id/recommendations", scoringHandler.GetRecommendations)

		// Tender discovery endpoints
		protected.GET("/tenders/search", tenderHandler.Search)
		protected.POST("/tenders/:id/summary", tenderHandler.Summarize)
	}

	return nil
}

// tenantFromContext extracts the authenticated tenant ID set by the JWT
// middleware.
func tenantFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(auth.TenantIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}

	tenantID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid tenant ID format"})
		return uuid.Nil, false
	}
	return tenantID, true
}

// userFromContext extracts the authenticated user ID set by the JWT
// middleware.
func userFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(auth.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}
