package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sedhub/tender-insight-api/internal/errors"
	"github.com/sedhub/tender-insight-api/internal/models"
	"github.com/sedhub/tender-insight-api/internal/services"
)

// ProfileHandler handles company profile operations
type ProfileHandler struct {
	profileService services.ProfileService
}

// NewProfileHandler creates a new profile handler with service injection
func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile returns the authenticated user's company profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.profileService.GetByUser(ctx, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile applies a partial update to the company profile. Any cached
// scores for the tenant are invalidated as part of the update.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	var form models.ProfileUpdateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.Update(ctx, tenantID, userID, &form)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// writeServiceError maps service-layer error codes to HTTP responses
func writeServiceError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case errors.ErrCodeUnknownCategory, errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeProfileNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		status = http.StatusForbidden
	case errors.ErrCodeConflict:
		status = http.StatusConflict
	case errors.ErrCodePersistenceUnavailable:
		status = http.StatusServiceUnavailable
	}

	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if appErr.Retryable {
		body["retryable"] = true
	}
	c.JSON(status, body)
}
