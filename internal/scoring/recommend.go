package scoring

import (
	"time"

	"github.com/sedhub/tender-insight-api/internal/models"
)

// Upgrade advice cutoffs: standings worse than these trigger a
// "consider upgrading" recommendation.
const (
	cidbUpgradeWorseThan = 5
	beeUpgradeWorseThan  = 4
)

// Recommend derives improvement suggestions from gaps between the profile
// and the category's criteria. It inspects raw profile state, not computed
// scores, so advice stays meaningful for criteria omitted from aggregation.
// Each credential yields at most one message, the most urgent applicable:
// missing beats expired beats poor standing. Output order is deterministic.
func (e *Engine) Recommend(profile *models.CompanyProfile, category TenderCategory) ([]string, error) {
	criteria, err := e.registry.CriteriaFor(category)
	if err != nil {
		return nil, err
	}

	now := e.now()
	recommendations := make([]string, 0, len(criteria))

	for _, criterion := range criteria {
		switch criterion.Kind {
		case KindCIDB:
			if msg := cidbAdvice(profile, now); msg != "" {
				recommendations = append(recommendations, msg)
			}
		case KindBEE:
			if msg := beeAdvice(profile, now); msg != "" {
				recommendations = append(recommendations, msg)
			}
		case KindTax:
			if msg := taxAdvice(profile, now); msg != "" {
				recommendations = append(recommendations, msg)
			}
		case KindGeneral:
			if profile.CompanyRegistrationNumber == "" {
				recommendations = append(recommendations, "Ensure the company is properly registered with CIPC")
			}
		}
	}

	return recommendations, nil
}

func cidbAdvice(profile *models.CompanyProfile, now time.Time) string {
	switch {
	case profile.CIDBGrade == nil:
		return "Register for CIDB grading to improve construction tender eligibility"
	case expired(profile.CIDBExpiryDate, now):
		return "Renew expired CIDB registration immediately"
	case *profile.CIDBGrade > cidbUpgradeWorseThan:
		return "Consider upgrading your CIDB grade for better tender competitiveness"
	}
	return ""
}

func beeAdvice(profile *models.CompanyProfile, now time.Time) string {
	switch {
	case profile.BEELevel == nil:
		return "Obtain B-BBEE certification to improve tender scoring"
	case expired(profile.BEEExpiryDate, now):
		return "Renew expired B-BBEE certificate immediately"
	case *profile.BEELevel > beeUpgradeWorseThan:
		return "Work on improving your B-BBEE level for better tender competitiveness"
	}
	return ""
}

func taxAdvice(profile *models.CompanyProfile, now time.Time) string {
	switch {
	case !profile.TaxClearance:
		return "Obtain a tax clearance certificate for tender eligibility"
	case expired(profile.TaxClearanceExpiry, now):
		return "Renew expired tax clearance certificate"
	}
	return ""
}
