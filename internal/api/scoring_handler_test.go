package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/auth"
	apperrors "github.com/sedhub/tender-insight-api/internal/errors"
	"github.com/sedhub/tender-insight-api/internal/scoring"
)

// Mock scoring service for testing
type mockScoringService struct {
	result  *scoring.Result
	history []scoring.Result
	recs    []string
	err     error
}

func (m *mockScoringService) ComputeScore(_ context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockScoringService) GetLatestScore(_ context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockScoringService) GetScoreHistory(_ context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory, limit int) ([]scoring.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

func (m *mockScoringService) GetRecommendations(_ context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recs, nil
}

func setupScoringRouter(svc *mockScoringService, tenantID, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Inject authenticated identity the way the JWT middleware would
	r.Use(func(c *gin.Context) {
		c.Set(auth.UserIDKey, userID)
		c.Set(auth.TenantIDKey, tenantID)
		c.Next()
	})

	handler := NewScoringHandler(svc)
	r.POST("/profiles/:id/score", handler.ComputeScore)
	r.GET("/profiles/:id/score/latest", handler.GetLatestScore)
	r.GET("/profiles/:id/score/history", handler.GetScoreHistory)
	r.GET("/profiles/:id/recommendations", handler.GetRecommendations)
	return r
}

func TestComputeScoreEndpoint(t *testing.T) {
	tenantID := uuid.New()
	profileID := uuid.New()
	svc := &mockScoringService{
		result: &scoring.Result{
			ProfileID:    profileID,
			TenantID:     tenantID,
			Category:     scoring.CategoryConstruction,
			OverallScore: 85,
			Tier:         scoring.TierHigh,
			ComputedAt:   time.Now().UTC(),
		},
	}
	r := setupScoringRouter(svc, tenantID, uuid.New())

	req := httptest.NewRequest("POST", "/profiles/"+profileID.String()+"/score?category=Construction", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Result scoring.Result `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Result.OverallScore != 85 || body.Result.Tier != scoring.TierHigh {
		t.Errorf("Unexpected result: %+v", body.Result)
	}
}

func TestComputeScoreEndpointRequiresCategory(t *testing.T) {
	r := setupScoringRouter(&mockScoringService{}, uuid.New(), uuid.New())

	req := httptest.NewRequest("POST", "/profiles/"+uuid.New().String()+"/score", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without category, got %d", w.Code)
	}
}

func TestComputeScoreEndpointRejectsBadProfileID(t *testing.T) {
	r := setupScoringRouter(&mockScoringService{}, uuid.New(), uuid.New())

	req := httptest.NewRequest("POST", "/profiles/not-a-uuid/score?category=Goods", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed profile ID, got %d", w.Code)
	}
}

func TestGetScoreHistoryRejectsMalformedLimit(t *testing.T) {
	r := setupScoringRouter(&mockScoringService{}, uuid.New(), uuid.New())

	for _, limit := range []string{"abc", "-1", "0", "2.5"} {
		req := httptest.NewRequest("GET", "/profiles/"+uuid.New().String()+"/score/history?limit="+limit, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for limit=%q, got %d", limit, w.Code)
		}
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			"unknown category maps to 400",
			apperrors.UnknownCategory("no scoring rubric for category", nil),
			http.StatusBadRequest,
		},
		{
			"missing profile maps to 404",
			apperrors.ProfileNotFound("company profile does not exist", nil),
			http.StatusNotFound,
		},
		{
			"ledger failure maps to 503",
			apperrors.PersistenceUnavailable("failed to record score result", nil),
			http.StatusServiceUnavailable,
		},
		{
			"database error maps to 500",
			apperrors.DatabaseError("failed to load profile", nil),
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupScoringRouter(&mockScoringService{err: tt.err}, uuid.New(), uuid.New())

			req := httptest.NewRequest("POST", "/profiles/"+uuid.New().String()+"/score?category=Construction", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestPersistenceErrorIsMarkedRetryable(t *testing.T) {
	r := setupScoringRouter(&mockScoringService{
		err: apperrors.PersistenceUnavailable("failed to record score result", nil),
	}, uuid.New(), uuid.New())

	req := httptest.NewRequest("POST", "/profiles/"+uuid.New().String()+"/score?category=Construction", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if retryable, _ := body["retryable"].(bool); !retryable {
		t.Error("Expected retryable flag in response body")
	}
}

func TestGetRecommendationsEndpoint(t *testing.T) {
	svc := &mockScoringService{
		recs: []string{
			"Obtain a tax clearance certificate from SARS",
			"Work on improving your B-BBEE level for better scoring",
		},
	}
	r := setupScoringRouter(svc, uuid.New(), uuid.New())

	req := httptest.NewRequest("GET", "/profiles/"+uuid.New().String()+"/recommendations?category=Services", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		Recommendations []string `json:"recommendations"`
		Count           int      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Count != 2 || len(body.Recommendations) != 2 {
		t.Errorf("Unexpected recommendations payload: %+v", body)
	}
}
