package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/cache"
	"github.com/sedhub/tender-insight-api/internal/errors"
	"github.com/sedhub/tender-insight-api/internal/logger"
	"github.com/sedhub/tender-insight-api/internal/models"
	"github.com/sedhub/tender-insight-api/internal/repository"
	"github.com/sedhub/tender-insight-api/internal/scoring"
	"github.com/sedhub/tender-insight-api/pkg/config"
)

// scoringServiceImpl implements ScoringService
type scoringServiceImpl struct {
	repos    *repository.Repositories
	engine   *scoring.Engine
	cache    cache.Cache
	cacheTTL time.Duration
	logger   logger.Logger
}

// newScoringService creates a new scoring service implementation
func newScoringService(repos *repository.Repositories, store cache.Cache, cfg *config.Config) ScoringService {
	return &scoringServiceImpl{
		repos:    repos,
		engine:   scoring.NewDefaultEngine(),
		cache:    store,
		cacheTTL: cfg.ScoreCacheTTL,
		logger:   logger.NewSimpleLogger(),
	}
}

// ComputeScore computes a readiness score, serving from cache when possible.
// Concurrent computations for the same profile are not serialized; each one
// appends its own ledger record and the latest is resolved by timestamp.
func (s *scoringServiceImpl) ComputeScore(ctx context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error) {
	key := cache.ScoreKey(profileID.String(), string(category))
	if cached, ok := s.cache.Get(ctx, tenantID.String(), key); ok {
		var result scoring.Result
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
		// A corrupt cache entry is just a miss
		s.logger.Warn("Discarding unreadable cached score", "profile_id", profileID)
	}

	profile, err := s.ownedProfile(ctx, tenantID, profileID, "ComputeScore")
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Score(profile, category)
	if err != nil {
		if stderrors.Is(err, scoring.ErrUnknownCategory) {
			return nil, errors.UnknownCategory("no scoring rubric for category", err).WithDetails(string(category))
		}
		return nil, errors.InternalError("scoring failed", err).WithOperation("ComputeScore")
	}

	// The ledger write must succeed before the result is served; a score
	// that was never recorded is not a success.
	if _, err := s.repos.Score.Append(ctx, result); err != nil {
		s.logger.Error("Failed to append score result", err)
		return nil, errors.PersistenceUnavailable("failed to record score result", err).WithOperation("ComputeScore")
	}

	s.cacheResult(ctx, tenantID, key, result)

	return result, nil
}

// GetLatestScore returns the most recent recorded score for a profile
func (s *scoringServiceImpl) GetLatestScore(ctx context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error) {
	key := cache.ScoreKey(profileID.String(), string(category))
	if cached, ok := s.cache.Get(ctx, tenantID.String(), key); ok {
		var result scoring.Result
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	result, err := s.repos.Score.Latest(ctx, profileID, category)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("no recorded score for profile", err).WithOperation("GetLatestScore")
		}
		return nil, errors.DatabaseError("failed to load latest score", err).WithOperation("GetLatestScore")
	}

	if result.TenantID != tenantID {
		return nil, errors.NotFound("no recorded score for profile", nil).WithOperation("GetLatestScore")
	}

	s.cacheResult(ctx, tenantID, key, result)

	return result, nil
}

// GetScoreHistory returns recorded scores, newest first. Ownership is
// checked against the profile itself so an empty history behaves the same
// as a populated one.
func (s *scoringServiceImpl) GetScoreHistory(ctx context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory, limit int) ([]scoring.Result, error) {
	if _, err := s.ownedProfile(ctx, tenantID, profileID, "GetScoreHistory"); err != nil {
		return nil, err
	}

	results, err := s.repos.Score.History(ctx, profileID, category, limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to load score history", err).WithOperation("GetScoreHistory")
	}
	return results, nil
}

// GetRecommendations returns improvement advice for a profile
func (s *scoringServiceImpl) GetRecommendations(ctx context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) ([]string, error) {
	profile, err := s.ownedProfile(ctx, tenantID, profileID, "GetRecommendations")
	if err != nil {
		return nil, err
	}

	recommendations, err := s.engine.Recommend(profile, category)
	if err != nil {
		if stderrors.Is(err, scoring.ErrUnknownCategory) {
			return nil, errors.UnknownCategory("no scoring rubric for category", err).WithDetails(string(category))
		}
		return nil, errors.InternalError("recommendation generation failed", err).WithOperation("GetRecommendations")
	}

	return recommendations, nil
}

// ownedProfile loads a profile and verifies it belongs to the calling
// tenant. A profile from another tenant is indistinguishable from a missing
// one.
func (s *scoringServiceImpl) ownedProfile(ctx context.Context, tenantID, profileID uuid.UUID, operation string) (*models.CompanyProfile, error) {
	profile, err := s.repos.Profile.GetByID(ctx, profileID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.ProfileNotFound("company profile does not exist", err).WithOperation(operation)
		}
		return nil, errors.DatabaseError("failed to load profile", err).WithOperation(operation)
	}
	if profile.TenantID != tenantID {
		return nil, errors.ProfileNotFound("company profile does not exist", nil).WithOperation(operation)
	}
	return profile, nil
}

// cacheResult stores a result best-effort; cache failures never affect the
// response.
func (s *scoringServiceImpl) cacheResult(ctx context.Context, tenantID uuid.UUID, key string, result *scoring.Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("Failed to marshal score for caching", "profile_id", result.ProfileID)
		return
	}
	s.cache.Set(ctx, tenantID.String(), key, string(payload), s.cacheTTL)
}
