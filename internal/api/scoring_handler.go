package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/scoring"
	"github.com/sedhub/tender-insight-api/internal/services"
)

// ScoringHandler handles readiness scoring operations
type ScoringHandler struct {
	scoringService services.ScoringService
}

// NewScoringHandler creates a new scoring handler with service injection
func NewScoringHandler(scoringService services.ScoringService) *ScoringHandler {
	return &ScoringHandler{
		scoringService: scoringService,
	}
}

func profileIDParam(c *gin.Context) (uuid.UUID, bool) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile ID"})
		return uuid.Nil, false
	}
	return profileID, true
}

// ComputeScore scores a profile against a tender category
func (h *ScoringHandler) ComputeScore(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	profileID, ok := profileIDParam(c)
	if !ok {
		return
	}

	category := scoring.TenderCategory(c.Query("category"))
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.scoringService.ComputeScore(ctx, tenantID, profileID, category)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":    result,
		"timestamp": time.Now(),
	})
}

// GetLatestScore returns the most recent recorded score for a profile
func (h *ScoringHandler) GetLatestScore(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	profileID, ok := profileIDParam(c)
	if !ok {
		return
	}

	// Optional; empty matches any category
	category := scoring.TenderCategory(c.Query("category"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.scoringService.GetLatestScore(ctx, tenantID, profileID, category)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetScoreHistory returns recorded scores for a profile, newest first
func (h *ScoringHandler) GetScoreHistory(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	profileID, ok := profileIDParam(c)
	if !ok {
		return
	}

	category := scoring.TenderCategory(c.Query("category"))

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	results, err := h.scoringService.GetScoreHistory(ctx, tenantID, profileID, category, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// GetRecommendations returns improvement advice for a profile
func (h *ScoringHandler) GetRecommendations(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	profileID, ok := profileIDParam(c)
	if !ok {
		return
	}

	category := scoring.TenderCategory(c.Query("category"))
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recommendations, err := h.scoringService.GetRecommendations(ctx, tenantID, profileID, category)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}
