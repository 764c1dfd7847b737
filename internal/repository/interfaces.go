package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/models"
	"github.com/sedhub/tender-insight-api/internal/scoring"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ProfileRepository defines the interface for company profile data access
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CompanyProfile, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error)
	Upsert(ctx context.Context, profile *models.CompanyProfile) error
}

// ScoreRepository is the append-only scoring history ledger. There is no
// update or delete: corrections are new records, and "latest" is whichever
// record carries the greatest timestamp.
type ScoreRepository interface {
	// Append records a scoring result and returns its assigned ID. A
	// failure here must reach the caller; a score that was never recorded
	// is not a silent success.
	Append(ctx context.Context, result *scoring.Result) (uuid.UUID, error)

	// Latest returns the most recent result for a profile. An empty
	// category matches any category.
	Latest(ctx context.Context, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error)

	// History returns results ordered by computation time descending,
	// bounded by limit. An empty category matches any category.
	History(ctx context.Context, profileID uuid.UUID, category scoring.TenderCategory, limit int) ([]scoring.Result, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Profile ProfileRepository
	Score   ScoreRepository
	User    UserRepository
	Tx      TransactionManager
}
