package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceStatus is the lifecycle state of a compliance credential
type ComplianceStatus string

const (
	StatusActive    ComplianceStatus = "Active"
	StatusSuspended ComplianceStatus = "Suspended"
	StatusExpired   ComplianceStatus = "Expired"
	StatusValid     ComplianceStatus = "Valid"
	StatusPending   ComplianceStatus = "Pending"
)

// CompanyProfile holds a company's compliance attributes used for tender
// readiness scoring. Ordinal credentials (CIDB grade, B-BBEE level) are
// pointers: nil means the credential is entirely absent, which is scored
// differently from a present-but-failing one.
type CompanyProfile struct {
	ID       uuid.UUID `json:"id" db:"id"`
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`

	// CIDB compliance (construction industry grading, 1-9, 1 is best)
	CIDBGrade              *int             `json:"cidb_grade" db:"cidb_grade"`
	CIDBRegistrationNumber string           `json:"cidb_registration_number" db:"cidb_registration_number"`
	CIDBExpiryDate         *time.Time       `json:"cidb_expiry_date" db:"cidb_expiry_date"`
	CIDBStatus             ComplianceStatus `json:"cidb_status" db:"cidb_status"`

	// B-BBEE compliance (empowerment level, 1-8, 1 is best)
	BEELevel             *int             `json:"bee_level" db:"bee_level"`
	BEECertificateNumber string           `json:"bee_certificate_number" db:"bee_certificate_number"`
	BEEExpiryDate        *time.Time       `json:"bee_expiry_date" db:"bee_expiry_date"`
	BEEStatus            ComplianceStatus `json:"bee_status" db:"bee_status"`

	// Additional compliance
	TaxClearance              bool       `json:"tax_clearance" db:"tax_clearance"`
	TaxClearanceExpiry        *time.Time `json:"tax_clearance_expiry" db:"tax_clearance_expiry"`
	VATRegistrationNumber     string     `json:"vat_registration_number" db:"vat_registration_number"`
	CompanyRegistrationNumber string     `json:"company_registration_number" db:"company_registration_number"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdateForm carries a profile update request. All fields are
// optional; omitted fields keep their current value.
type ProfileUpdateForm struct {
	CIDBGrade              *int       `json:"cidb_grade"`
	CIDBRegistrationNumber *string    `json:"cidb_registration_number"`
	CIDBExpiryDate         *time.Time `json:"cidb_expiry_date"`
	CIDBStatus             *string    `json:"cidb_status"`

	BEELevel             *int       `json:"bee_level"`
	BEECertificateNumber *string    `json:"bee_certificate_number"`
	BEEExpiryDate        *time.Time `json:"bee_expiry_date"`
	BEEStatus            *string    `json:"bee_status"`

	TaxClearance              *bool      `json:"tax_clearance"`
	TaxClearanceExpiry        *time.Time `json:"tax_clearance_expiry"`
	VATRegistrationNumber     *string    `json:"vat_registration_number"`
	CompanyRegistrationNumber *string    `json:"company_registration_number"`
}
