package services

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/cache"
	"github.com/sedhub/tender-insight-api/internal/errors"
	"github.com/sedhub/tender-insight-api/internal/logger"
	"github.com/sedhub/tender-insight-api/internal/models"
	"github.com/sedhub/tender-insight-api/internal/repository"
)

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	repos  *repository.Repositories
	cache  cache.Cache
	logger logger.Logger
}

// newProfileService creates a new profile service implementation
func newProfileService(repos *repository.Repositories, store cache.Cache) ProfileService {
	return &profileServiceImpl{
		repos:  repos,
		cache:  store,
		logger: logger.NewSimpleLogger(),
	}
}

// GetByUser returns the company profile owned by a user
func (s *profileServiceImpl) GetByUser(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	profile, err := s.repos.Profile.GetByUser(ctx, userID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.ProfileNotFound("company profile does not exist", err).WithOperation("GetByUser")
		}
		return nil, errors.DatabaseError("failed to load profile", err).WithOperation("GetByUser")
	}
	return profile, nil
}

// Update applies a partial profile update and invalidates every cached
// entry for the tenant. Cached scores derived from the old profile must not
// outlive it; ledger history is untouched.
func (s *profileServiceImpl) Update(ctx context.Context, tenantID, userID uuid.UUID, form *models.ProfileUpdateForm) (*models.CompanyProfile, error) {
	profile, err := s.repos.Profile.GetByUser(ctx, userID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			// First update creates the profile
			profile = &models.CompanyProfile{
				TenantID: tenantID,
				UserID:   userID,
			}
		} else {
			return nil, errors.DatabaseError("failed to load profile", err).WithOperation("Update")
		}
	}

	if profile.TenantID != tenantID {
		return nil, errors.ProfileNotFound("company profile does not exist", nil).WithOperation("Update")
	}

	applyUpdate(profile, form)

	if err := s.repos.Profile.Upsert(ctx, profile); err != nil {
		return nil, errors.DatabaseError("failed to save profile", err).WithOperation("Update")
	}

	removed := s.cache.InvalidateTenant(ctx, tenantID.String())
	s.logger.Info("Invalidated tenant cache after profile update", "tenant_id", tenantID, "entries", removed)

	return profile, nil
}

func applyUpdate(profile *models.CompanyProfile, form *models.ProfileUpdateForm) {
	if form.CIDBGrade != nil {
		profile.CIDBGrade = form.CIDBGrade
	}
	if form.CIDBRegistrationNumber != nil {
		profile.CIDBRegistrationNumber = *form.CIDBRegistrationNumber
	}
	if form.CIDBExpiryDate != nil {
		profile.CIDBExpiryDate = form.CIDBExpiryDate
	}
	if form.CIDBStatus != nil {
		profile.CIDBStatus = models.ComplianceStatus(*form.CIDBStatus)
	}

	if form.BEELevel != nil {
		profile.BEELevel = form.BEELevel
	}
	if form.BEECertificateNumber != nil {
		profile.BEECertificateNumber = *form.BEECertificateNumber
	}
	if form.BEEExpiryDate != nil {
		profile.BEEExpiryDate = form.BEEExpiryDate
	}
	if form.BEEStatus != nil {
		profile.BEEStatus = models.ComplianceStatus(*form.BEEStatus)
	}

	if form.TaxClearance != nil {
		profile.TaxClearance = *form.TaxClearance
	}
	if form.TaxClearanceExpiry != nil {
		profile.TaxClearanceExpiry = form.TaxClearanceExpiry
	}
	if form.VATRegistrationNumber != nil {
		profile.VATRegistrationNumber = *form.VATRegistrationNumber
	}
	if form.CompanyRegistrationNumber != nil {
		profile.CompanyRegistrationNumber = *form.CompanyRegistrationNumber
	}
}
