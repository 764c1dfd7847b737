package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/auth"
	"github.com/sedhub/tender-insight-api/internal/cache"
	"github.com/sedhub/tender-insight-api/internal/models"
	"github.com/sedhub/tender-insight-api/internal/repository"
	"github.com/sedhub/tender-insight-api/internal/scoring"
	"github.com/sedhub/tender-insight-api/internal/tenders"
	"github.com/sedhub/tender-insight-api/pkg/config"
)

// Services contains all application services
type Services struct {
	Scoring ScoringService
	Profile ProfileService
	Auth    AuthService
	Tenders TenderService
}

// ScoringService defines the interface for readiness scoring business logic
type ScoringService interface {
	// ComputeScore returns the readiness score for a profile against a
	// tender category, serving from cache when a fresh result exists and
	// recording every fresh computation in the scoring ledger.
	ComputeScore(ctx context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error)

	// GetLatestScore returns the most recent recorded score. An empty
	// category matches any category.
	GetLatestScore(ctx context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error)

	// GetScoreHistory returns recorded scores, newest first. The profile
	// must belong to the calling tenant.
	GetScoreHistory(ctx context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory, limit int) ([]scoring.Result, error)

	// GetRecommendations returns improvement advice for a profile against
	// a tender category. The profile must belong to the calling tenant.
	GetRecommendations(ctx context.Context, tenantID, profileID uuid.UUID, category scoring.TenderCategory) ([]string, error)
}

// ProfileService defines the interface for company profile business logic
type ProfileService interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error)
	Update(ctx context.Context, tenantID, userID uuid.UUID, form *models.ProfileUpdateForm) (*models.CompanyProfile, error)
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	ValidateToken(token string) (*auth.Claims, error)
	RefreshToken(ctx context.Context, token string) (*models.LoginResponse, error)
}

// TenderService defines the interface for tender discovery business logic
type TenderService interface {
	Search(ctx context.Context, tenantID uuid.UUID, query tenders.Query) ([]tenders.Tender, error)
	Summarize(ctx context.Context, tenantID uuid.UUID, tenderID, text string) (string, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(db *sql.DB, store cache.Cache, cfg *config.Config) *Services {
	repos := repository.NewRepositories(db)

	return &Services{
		Scoring: newScoringService(repos, store, cfg),
		Profile: newProfileService(repos, store),
		Auth:    newAuthService(repos, cfg),
		Tenders: newTenderService(store, cfg),
	}
}
