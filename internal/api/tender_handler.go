package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sedhub/tender-insight-api/internal/services"
	"github.com/sedhub/tender-insight-api/internal/tenders"
)

// TenderHandler handles tender discovery operations
type TenderHandler struct {
	tenderService services.TenderService
}

// NewTenderHandler creates a new tender handler with service injection
func NewTenderHandler(tenderService services.TenderService) *TenderHandler {
	return &TenderHandler{
		tenderService: tenderService,
	}
}

// Search queries the public tender portal
func (h *TenderHandler) Search(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	query := tenders.Query{}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query.Keywords = strings.Fields(q)
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be YYYY-MM-DD"})
			return
		}
		query.DateFrom = t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be YYYY-MM-DD"})
			return
		}
		query.DateTo = t
	}
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	results, err := h.tenderService.Search(ctx, tenantID, query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Tender search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenders": results,
		"count":   len(results),
	})
}

// Summarize returns a plain-language summary of a tender document
func (h *TenderHandler) Summarize(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	tenderID := c.Param("id")

	type SummarizeRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	summary, err := h.tenderService.Summarize(ctx, tenantID, tenderID, req.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Summarization failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tender_id": tenderID,
		"summary":   summary,
	})
}
