package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/models"
)

// profileRepository implements ProfileRepository
type profileRepository struct {
	db dbExecutor
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db dbExecutor) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	id, tenant_id, user_id,
	cidb_grade, cidb_registration_number, cidb_expiry_date, cidb_status,
	bee_level, bee_certificate_number, bee_expiry_date, bee_status,
	tax_clearance, tax_clearance_expiry, vat_registration_number,
	company_registration_number, created_at, updated_at
`

func scanProfile(row *sql.Row) (*models.CompanyProfile, error) {
	profile := &models.CompanyProfile{}
	err := row.Scan(
		&profile.ID, &profile.TenantID, &profile.UserID,
		&profile.CIDBGrade, &profile.CIDBRegistrationNumber, &profile.CIDBExpiryDate, &profile.CIDBStatus,
		&profile.BEELevel, &profile.BEECertificateNumber, &profile.BEEExpiryDate, &profile.BEEStatus,
		&profile.TaxClearance, &profile.TaxClearanceExpiry, &profile.VATRegistrationNumber,
		&profile.CompanyRegistrationNumber, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetByID retrieves a company profile by ID
func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CompanyProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM company_profiles WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

// GetByUser retrieves the company profile owned by a user
func (r *profileRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM company_profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

// Upsert inserts or updates a company profile. Profiles are keyed by user;
// scoring history rows are independent of the profile lifecycle and are
// never touched here.
func (r *profileRepository) Upsert(ctx context.Context, profile *models.CompanyProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	query := `
		INSERT INTO company_profiles (
			id, tenant_id, user_id,
			cidb_grade, cidb_registration_number, cidb_expiry_date, cidb_status,
			bee_level, bee_certificate_number, bee_expiry_date, bee_status,
			tax_clearance, tax_clearance_expiry, vat_registration_number,
			company_registration_number, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (user_id)
		DO UPDATE SET
			cidb_grade = $4, cidb_registration_number = $5, cidb_expiry_date = $6, cidb_status = $7,
			bee_level = $8, bee_certificate_number = $9, bee_expiry_date = $10, bee_status = $11,
			tax_clearance = $12, tax_clearance_expiry = $13, vat_registration_number = $14,
			company_registration_number = $15, updated_at = $17
	`

	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.TenantID, profile.UserID,
		profile.CIDBGrade, profile.CIDBRegistrationNumber, profile.CIDBExpiryDate, profile.CIDBStatus,
		profile.BEELevel, profile.BEECertificateNumber, profile.BEEExpiryDate, profile.BEEStatus,
		profile.TaxClearance, profile.TaxClearanceExpiry, profile.VATRegistrationNumber,
		profile.CompanyRegistrationNumber, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
