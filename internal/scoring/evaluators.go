package scoring

import (
	"time"

	"github.com/sedhub/tender-insight-api/internal/models"
)

// OrdinalScheme describes a bounded ordinal credential and which end of the
// range is best. Both CIDB and B-BBEE rank 1 as best, but the direction is an
// attribute so the ranking math lives in one place.
type OrdinalScheme struct {
	Min     int  `json:"min"`
	Max     int  `json:"max"`
	BestLow bool `json:"best_low"`
}

// CIDBScheme is the construction board grading range (1-9, 1 is best)
var CIDBScheme = OrdinalScheme{Min: 1, Max: 9, BestLow: true}

// BEEScheme is the empowerment level range (1-8, 1 is best)
var BEEScheme = OrdinalScheme{Min: 1, Max: 8, BestLow: true}

// Rank maps an ordinal value to [0,100] linearly, with the best value at 100
// and the worst bound at 0. Out-of-range values are clamped.
func (s OrdinalScheme) Rank(value int) float64 {
	if value < s.Min {
		value = s.Min
	}
	if value > s.Max {
		value = s.Max
	}
	span := float64(s.Max - s.Min)
	if span == 0 {
		return 100
	}
	if s.BestLow {
		return float64(s.Max-value) / span * 100
	}
	return float64(value-s.Min) / span * 100
}

// Evaluator scores one criterion against a profile. The second return value
// is false only when the relevant credential is entirely absent from the
// profile; in that case the criterion is omitted from aggregation. A
// present-but-failing credential scores 0 with ok=true, so its weight still
// counts against the overall score.
type Evaluator interface {
	Evaluate(profile *models.CompanyProfile, criterion Criterion, now time.Time) (float64, bool)
}

// EvaluatorFunc adapts a function to the Evaluator interface
type EvaluatorFunc func(profile *models.CompanyProfile, criterion Criterion, now time.Time) (float64, bool)

// Evaluate implements Evaluator
func (f EvaluatorFunc) Evaluate(profile *models.CompanyProfile, criterion Criterion, now time.Time) (float64, bool) {
	return f(profile, criterion, now)
}

// defaultEvaluators returns the evaluator table keyed by criterion kind.
// Registered once at engine construction; the aggregation loop dispatches
// through this table and stays closed for modification.
func defaultEvaluators() map[CriterionKind]Evaluator {
	return map[CriterionKind]Evaluator{
		KindCIDB:    EvaluatorFunc(evaluateCIDB),
		KindBEE:     EvaluatorFunc(evaluateBEE),
		KindTax:     EvaluatorFunc(evaluateTax),
		KindGeneral: EvaluatorFunc(evaluateRegistration),
	}
}

// expired reports whether a credential expiry date has passed. A nil expiry
// never expires.
func expired(expiry *time.Time, now time.Time) bool {
	return expiry != nil && expiry.Before(now)
}

// evaluateCIDB scores the construction board grading. Expiry dominates
// grade: the best possible grade still scores 0 once the registration has
// lapsed.
func evaluateCIDB(profile *models.CompanyProfile, criterion Criterion, now time.Time) (float64, bool) {
	if profile.CIDBGrade == nil {
		return 0, false
	}
	if profile.CIDBStatus != models.StatusActive {
		return 0, true
	}
	if expired(profile.CIDBExpiryDate, now) {
		return 0, true
	}
	return criterion.Scheme.Rank(*profile.CIDBGrade), true
}

// evaluateBEE scores the empowerment level with the same status and expiry
// gating as the grading evaluator.
func evaluateBEE(profile *models.CompanyProfile, criterion Criterion, now time.Time) (float64, bool) {
	if profile.BEELevel == nil {
		return 0, false
	}
	if profile.BEEStatus != models.StatusValid {
		return 0, true
	}
	if expired(profile.BEEExpiryDate, now) {
		return 0, true
	}
	return criterion.Scheme.Rank(*profile.BEELevel), true
}

// evaluateTax scores 100 for a current tax clearance, 0 otherwise
func evaluateTax(profile *models.CompanyProfile, _ Criterion, now time.Time) (float64, bool) {
	if !profile.TaxClearance {
		return 0, true
	}
	if expired(profile.TaxClearanceExpiry, now) {
		return 0, true
	}
	return 100, true
}

// evaluateRegistration scores 100 when a company registration number is on
// file, 0 otherwise.
func evaluateRegistration(profile *models.CompanyProfile, _ Criterion, _ time.Time) (float64, bool) {
	if profile.CompanyRegistrationNumber == "" {
		return 0, true
	}
	return 100, true
}
