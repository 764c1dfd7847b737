package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/cache"
	apperrors "github.com/sedhub/tender-insight-api/internal/errors"
	"github.com/sedhub/tender-insight-api/internal/logger"
	"github.com/sedhub/tender-insight-api/internal/models"
	"github.com/sedhub/tender-insight-api/internal/repository"
	"github.com/sedhub/tender-insight-api/internal/scoring"
)

// mockProfileRepo serves profiles from a map
type mockProfileRepo struct {
	profiles map[uuid.UUID]*models.CompanyProfile
}

func (m *mockProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*models.CompanyProfile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockProfileRepo) GetByUser(_ context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockProfileRepo) Upsert(_ context.Context, profile *models.CompanyProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	m.profiles[profile.ID] = profile
	return nil
}

// mockScoreRepo is an in-memory append-only ledger
type mockScoreRepo struct {
	records    []scoring.Result
	failAppend bool
}

func (m *mockScoreRepo) Append(_ context.Context, result *scoring.Result) (uuid.UUID, error) {
	if m.failAppend {
		return uuid.Nil, fmt.Errorf("connection refused")
	}
	id := uuid.New()
	result.ID = id
	m.records = append(m.records, *result)
	return id, nil
}

func (m *mockScoreRepo) Latest(_ context.Context, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error) {
	var latest *scoring.Result
	for i := range m.records {
		r := &m.records[i]
		if r.ProfileID != profileID {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		if latest == nil || r.ComputedAt.After(latest.ComputedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (m *mockScoreRepo) History(_ context.Context, profileID uuid.UUID, category scoring.TenderCategory, limit int) ([]scoring.Result, error) {
	if limit <= 0 {
		limit = 20
	}
	var results []scoring.Result
	for i := len(m.records) - 1; i >= 0 && len(results) < limit; i-- {
		r := m.records[i]
		if r.ProfileID != profileID {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// brokenCache simulates an unreachable cache backend: reads miss, writes
// and invalidations are no-ops.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string, string) (string, bool)      { return "", false }
func (brokenCache) Set(context.Context, string, string, string, time.Duration) {}
func (brokenCache) InvalidateTenant(context.Context, string) int            { return 0 }
func (brokenCache) Ping(context.Context) error                              { return fmt.Errorf("unreachable") }

func compliantProfile(tenantID uuid.UUID) *models.CompanyProfile {
	grade := 1
	level := 1
	future := time.Now().Add(365 * 24 * time.Hour)
	return &models.CompanyProfile{
		ID:                        uuid.New(),
		TenantID:                  tenantID,
		UserID:                    uuid.New(),
		CIDBGrade:                 &grade,
		CIDBStatus:                models.StatusActive,
		CIDBExpiryDate:            &future,
		BEELevel:                  &level,
		BEEStatus:                 models.StatusValid,
		BEEExpiryDate:             &future,
		TaxClearance:              true,
		TaxClearanceExpiry:        &future,
		CompanyRegistrationNumber: "2019/123456/07",
	}
}

func newTestScoringService(profiles *mockProfileRepo, scores *mockScoreRepo, store cache.Cache) *scoringServiceImpl {
	return &scoringServiceImpl{
		repos:    &repository.Repositories{Profile: profiles, Score: scores},
		engine:   scoring.NewDefaultEngine(),
		cache:    store,
		cacheTTL: 5 * time.Minute,
		logger:   logger.NewSimpleLogger(),
	}
}

func TestComputeScoreRecordsAndCaches(t *testing.T) {
	tenantID := uuid.New()
	profile := compliantProfile(tenantID)
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}}
	scores := &mockScoreRepo{}
	svc := newTestScoringService(profiles, scores, cache.NewMemoryCache())

	ctx := context.Background()
	first, err := svc.ComputeScore(ctx, tenantID, profile.ID, scoring.CategoryConstruction)
	if err != nil {
		t.Fatalf("ComputeScore failed: %v", err)
	}
	if first.OverallScore != 100 {
		t.Errorf("Expected fully compliant profile to score 100, got %v", first.OverallScore)
	}
	if len(scores.records) != 1 {
		t.Fatalf("Expected 1 ledger record, got %d", len(scores.records))
	}

	// Second computation within the TTL is served from cache: no new
	// ledger record.
	second, err := svc.ComputeScore(ctx, tenantID, profile.ID, scoring.CategoryConstruction)
	if err != nil {
		t.Fatalf("Second ComputeScore failed: %v", err)
	}
	if len(scores.records) != 1 {
		t.Errorf("Expected cached result to skip the ledger, got %d records", len(scores.records))
	}
	if second.OverallScore != first.OverallScore || second.Tier != first.Tier {
		t.Errorf("Cached result differs: %v/%v vs %v/%v",
			second.OverallScore, second.Tier, first.OverallScore, first.Tier)
	}
}

func TestComputeScoreLedgerFailureIsRetryable(t *testing.T) {
	tenantID := uuid.New()
	profile := compliantProfile(tenantID)
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}}
	scores := &mockScoreRepo{failAppend: true}
	store := cache.NewMemoryCache()
	svc := newTestScoringService(profiles, scores, store)

	_, err := svc.ComputeScore(context.Background(), tenantID, profile.ID, scoring.CategoryConstruction)
	if err == nil {
		t.Fatal("Expected error when ledger append fails")
	}

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.ErrCodePersistenceUnavailable {
		t.Errorf("Expected code %s, got %s", apperrors.ErrCodePersistenceUnavailable, appErr.Code)
	}
	if !appErr.Retryable {
		t.Error("Expected ledger failure to be retryable")
	}

	// An unrecorded score must not be cached either
	if _, ok := store.Get(context.Background(), tenantID.String(),
		cache.ScoreKey(profile.ID.String(), string(scoring.CategoryConstruction))); ok {
		t.Error("Expected no cache entry after failed append")
	}
}

func TestComputeScoreSurvivesBrokenCache(t *testing.T) {
	tenantID := uuid.New()
	profile := compliantProfile(tenantID)
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}}
	scores := &mockScoreRepo{}
	svc := newTestScoringService(profiles, scores, brokenCache{})

	result, err := svc.ComputeScore(context.Background(), tenantID, profile.ID, scoring.CategoryConstruction)
	if err != nil {
		t.Fatalf("Expected computation to succeed with broken cache, got %v", err)
	}
	if result.OverallScore != 100 {
		t.Errorf("Expected score 100, got %v", result.OverallScore)
	}

	// Every call recomputes since nothing can be cached
	if _, err := svc.ComputeScore(context.Background(), tenantID, profile.ID, scoring.CategoryConstruction); err != nil {
		t.Fatalf("Second computation failed: %v", err)
	}
	if len(scores.records) != 2 {
		t.Errorf("Expected 2 ledger records without caching, got %d", len(scores.records))
	}
}

func TestComputeScoreProfileNotFound(t *testing.T) {
	svc := newTestScoringService(
		&mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{}},
		&mockScoreRepo{},
		cache.NewMemoryCache(),
	)

	_, err := svc.ComputeScore(context.Background(), uuid.New(), uuid.New(), scoring.CategoryConstruction)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeProfileNotFound {
		t.Errorf("Expected PROFILE_NOT_FOUND, got %v", err)
	}
}

func TestComputeScoreRejectsForeignTenant(t *testing.T) {
	ownerTenant := uuid.New()
	profile := compliantProfile(ownerTenant)
	svc := newTestScoringService(
		&mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}},
		&mockScoreRepo{},
		cache.NewMemoryCache(),
	)

	_, err := svc.ComputeScore(context.Background(), uuid.New(), profile.ID, scoring.CategoryConstruction)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeProfileNotFound {
		t.Errorf("Expected foreign tenant to see PROFILE_NOT_FOUND, got %v", err)
	}
}

func TestComputeScoreUnknownCategory(t *testing.T) {
	tenantID := uuid.New()
	profile := compliantProfile(tenantID)
	svc := newTestScoringService(
		&mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}},
		&mockScoreRepo{},
		cache.NewMemoryCache(),
	)

	_, err := svc.ComputeScore(context.Background(), tenantID, profile.ID, scoring.TenderCategory("Mining"))
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeUnknownCategory {
		t.Errorf("Expected UNKNOWN_CATEGORY, got %v", err)
	}
}

func TestGetLatestScoreRoundTrip(t *testing.T) {
	tenantID := uuid.New()
	profile := compliantProfile(tenantID)
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}}
	scores := &mockScoreRepo{}
	svc := newTestScoringService(profiles, scores, cache.NewMemoryCache())

	ctx := context.Background()
	computed, err := svc.ComputeScore(ctx, tenantID, profile.ID, scoring.CategoryServices)
	if err != nil {
		t.Fatalf("ComputeScore failed: %v", err)
	}

	latest, err := svc.GetLatestScore(ctx, tenantID, profile.ID, scoring.CategoryServices)
	if err != nil {
		t.Fatalf("GetLatestScore failed: %v", err)
	}
	if latest.OverallScore != computed.OverallScore || latest.Tier != computed.Tier {
		t.Errorf("Latest score differs from computed: %v/%v vs %v/%v",
			latest.OverallScore, latest.Tier, computed.OverallScore, computed.Tier)
	}
	if len(latest.Breakdown) != len(computed.Breakdown) {
		t.Errorf("Breakdown size differs: %d vs %d", len(latest.Breakdown), len(computed.Breakdown))
	}
}

func TestGetLatestScoreNoHistory(t *testing.T) {
	tenantID := uuid.New()
	svc := newTestScoringService(
		&mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{}},
		&mockScoreRepo{},
		cache.NewMemoryCache(),
	)

	_, err := svc.GetLatestScore(context.Background(), tenantID, uuid.New(), "")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("Expected NOT_FOUND for empty history, got %v", err)
	}
}

func TestGetScoreHistoryOrderAndLimit(t *testing.T) {
	tenantID := uuid.New()
	profile := compliantProfile(tenantID)
	scores := &mockScoreRepo{}

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		scores.records = append(scores.records, scoring.Result{
			ID:         uuid.New(),
			ProfileID:  profile.ID,
			TenantID:   tenantID,
			Category:   scoring.CategoryGoods,
			Tier:       scoring.TierMedium,
			ComputedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	svc := newTestScoringService(
		&mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}},
		scores,
		cache.NewMemoryCache(),
	)

	history, err := svc.GetScoreHistory(context.Background(), tenantID, profile.ID, scoring.CategoryGoods, 3)
	if err != nil {
		t.Fatalf("GetScoreHistory failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].ComputedAt.After(history[i-1].ComputedAt) {
			t.Error("Expected history ordered newest first")
		}
	}
}

func TestProfileUpdateInvalidatesCachedScores(t *testing.T) {
	tenantID := uuid.New()
	profile := compliantProfile(tenantID)
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}}
	scores := &mockScoreRepo{}
	store := cache.NewMemoryCache()
	scoringSvc := newTestScoringService(profiles, scores, store)
	profileSvc := &profileServiceImpl{
		repos:  &repository.Repositories{Profile: profiles, Score: scores},
		cache:  store,
		logger: logger.NewSimpleLogger(),
	}

	ctx := context.Background()
	if _, err := scoringSvc.ComputeScore(ctx, tenantID, profile.ID, scoring.CategoryConstruction); err != nil {
		t.Fatalf("ComputeScore failed: %v", err)
	}
	if len(scores.records) != 1 {
		t.Fatalf("Expected 1 ledger record, got %d", len(scores.records))
	}

	// Degrade the profile
	grade := 8
	if _, err := profileSvc.Update(ctx, tenantID, profile.UserID, &models.ProfileUpdateForm{CIDBGrade: &grade}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// The stale cached 100 must be gone; the next computation is fresh
	result, err := scoringSvc.ComputeScore(ctx, tenantID, profile.ID, scoring.CategoryConstruction)
	if err != nil {
		t.Fatalf("ComputeScore after update failed: %v", err)
	}
	if len(scores.records) != 2 {
		t.Errorf("Expected recomputation after invalidation, got %d records", len(scores.records))
	}
	if result.OverallScore >= 100 {
		t.Errorf("Expected degraded score after update, got %v", result.OverallScore)
	}
}

func TestGetScoreHistoryRejectsForeignTenant(t *testing.T) {
	ownerTenant := uuid.New()
	profile := compliantProfile(ownerTenant)
	scores := &mockScoreRepo{}
	scores.records = append(scores.records, scoring.Result{
		ID:           uuid.New(),
		ProfileID:    profile.ID,
		TenantID:     ownerTenant,
		Category:     scoring.CategoryConstruction,
		OverallScore: 100,
		Tier:         scoring.TierHigh,
		ComputedAt:   time.Now().UTC(),
	})
	svc := newTestScoringService(
		&mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}},
		scores,
		cache.NewMemoryCache(),
	)

	history, err := svc.GetScoreHistory(context.Background(), uuid.New(), profile.ID, scoring.CategoryConstruction, 10)
	if err == nil {
		t.Fatalf("Expected foreign tenant to be rejected, got %d records", len(history))
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeProfileNotFound {
		t.Errorf("Expected foreign tenant to see PROFILE_NOT_FOUND, got %v", err)
	}
}

func TestGetRecommendationsRejectsForeignTenant(t *testing.T) {
	ownerTenant := uuid.New()
	profile := &models.CompanyProfile{ID: uuid.New(), TenantID: ownerTenant, UserID: uuid.New()}
	svc := newTestScoringService(
		&mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}},
		&mockScoreRepo{},
		cache.NewMemoryCache(),
	)

	_, err := svc.GetRecommendations(context.Background(), uuid.New(), profile.ID, scoring.CategoryConstruction)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeProfileNotFound {
		t.Errorf("Expected foreign tenant to see PROFILE_NOT_FOUND, got %v", err)
	}
}

func TestCachedScoreServedUntilTTLExpires(t *testing.T) {
	tenantID := uuid.New()
	profile := compliantProfile(tenantID)
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}}
	scores := &mockScoreRepo{}

	current := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	store := cache.NewMemoryCache().WithClock(func() time.Time { return current })
	svc := newTestScoringService(profiles, scores, store)

	ctx := context.Background()
	first, err := svc.ComputeScore(ctx, tenantID, profile.ID, scoring.CategoryConstruction)
	if err != nil {
		t.Fatalf("ComputeScore failed: %v", err)
	}
	if first.OverallScore != 100 {
		t.Fatalf("Expected 100, got %v", first.OverallScore)
	}

	// Degrade the profile behind the cache's back; within the TTL the
	// stale cached value is still served.
	grade := 8
	profile.CIDBGrade = &grade

	current = current.Add(4 * time.Minute)
	stale, err := svc.ComputeScore(ctx, tenantID, profile.ID, scoring.CategoryConstruction)
	if err != nil {
		t.Fatalf("ComputeScore within TTL failed: %v", err)
	}
	if stale.OverallScore != 100 {
		t.Errorf("Expected stale cached score 100 within TTL, got %v", stale.OverallScore)
	}
	if len(scores.records) != 1 {
		t.Errorf("Expected no recomputation within TTL, got %d records", len(scores.records))
	}

	// Past the TTL the entry expires and the next call recomputes
	current = current.Add(2 * time.Minute)
	fresh, err := svc.ComputeScore(ctx, tenantID, profile.ID, scoring.CategoryConstruction)
	if err != nil {
		t.Fatalf("ComputeScore after TTL failed: %v", err)
	}
	if fresh.OverallScore >= 100 {
		t.Errorf("Expected recomputed score to reflect the degraded grade, got %v", fresh.OverallScore)
	}
	if len(scores.records) != 2 {
		t.Errorf("Expected recomputation after TTL expiry, got %d records", len(scores.records))
	}
}

func TestGetRecommendationsForEmptyProfile(t *testing.T) {
	tenantID := uuid.New()
	profile := &models.CompanyProfile{ID: uuid.New(), TenantID: tenantID, UserID: uuid.New()}
	svc := newTestScoringService(
		&mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{profile.ID: profile}},
		&mockScoreRepo{},
		cache.NewMemoryCache(),
	)

	recs, err := svc.GetRecommendations(context.Background(), tenantID, profile.ID, scoring.CategoryConstruction)
	if err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}
	if len(recs) != 4 {
		t.Errorf("Expected 4 recommendations for an empty construction profile, got %d: %v", len(recs), recs)
	}
}
