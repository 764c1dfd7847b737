package scoring

// ReadinessTier is the categorical output of classification
type ReadinessTier string

const (
	TierHigh   ReadinessTier = "High"
	TierMedium ReadinessTier = "Medium"
	TierLow    ReadinessTier = "Low"
)

// Thresholds are the tier cutoffs for a category. A score exactly at a
// cutoff lands in the higher tier.
type Thresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

// ThresholdTable maps tender categories to their tier cutoffs. Construction
// tenders use a stricter bar than goods and services; new categories are
// added here, not as code branches.
type ThresholdTable map[TenderCategory]Thresholds

// defaultFallback is used for categories without a configured row, matching
// the services cutoffs.
var defaultFallback = Thresholds{High: 75, Medium: 55}

// DefaultThresholds returns the platform's standard threshold table
func DefaultThresholds() ThresholdTable {
	return ThresholdTable{
		CategoryConstruction: {High: 80, Medium: 60},
		CategoryServices:     {High: 75, Medium: 55},
		CategoryGoods:        {High: 70, Medium: 50},
	}
}

// Classify maps an overall score to a readiness tier using the category's
// thresholds.
func (t ThresholdTable) Classify(overallScore float64, category TenderCategory) ReadinessTier {
	thresholds, ok := t[category]
	if !ok {
		thresholds = defaultFallback
	}
	switch {
	case overallScore >= thresholds.High:
		return TierHigh
	case overallScore >= thresholds.Medium:
		return TierMedium
	default:
		return TierLow
	}
}
