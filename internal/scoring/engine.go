package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/models"
)

// Result is one readiness computation. Results are immutable once created;
// recomputation appends a new record rather than updating a prior one.
type Result struct {
	ID           uuid.UUID                 `json:"id"`
	ProfileID    uuid.UUID                 `json:"profile_id"`
	TenantID     uuid.UUID                 `json:"tenant_id"`
	Category     TenderCategory            `json:"category"`
	OverallScore float64                   `json:"overall_score"`
	Breakdown    map[CriterionKind]float64 `json:"breakdown"`
	Tier         ReadinessTier             `json:"tier"`
	ComputedAt   time.Time                 `json:"computed_at"`
}

// Engine runs the readiness scoring pipeline: registry lookup, per-criterion
// evaluation, weighted aggregation and tier classification. It is stateless
// and safe for concurrent use.
type Engine struct {
	registry   *Registry
	evaluators map[CriterionKind]Evaluator
	thresholds ThresholdTable
	now        func() time.Time
}

// NewEngine creates a scoring engine with the default evaluator table
func NewEngine(registry *Registry, thresholds ThresholdTable) *Engine {
	return &Engine{
		registry:   registry,
		evaluators: defaultEvaluators(),
		thresholds: thresholds,
		now:        time.Now,
	}
}

// NewDefaultEngine creates an engine with the standard rubrics and thresholds
func NewDefaultEngine() *Engine {
	return NewEngine(NewDefaultRegistry(), DefaultThresholds())
}

// WithClock overrides the engine clock, used by tests for deterministic
// expiry handling.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Registry exposes the engine's criteria registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Score computes the readiness of a profile for a tender category. Criteria
// whose credential is entirely absent are omitted from both the numerator
// and the denominator; a profile is evaluated on what is present. When
// nothing is present the overall score is 0, not an error.
func (e *Engine) Score(profile *models.CompanyProfile, category TenderCategory) (*Result, error) {
	criteria, err := e.registry.CriteriaFor(category)
	if err != nil {
		return nil, err
	}

	now := e.now()
	breakdown := make(map[CriterionKind]float64)
	var totalWeighted, totalWeight float64

	for _, criterion := range criteria {
		evaluator, ok := e.evaluators[criterion.Kind]
		if !ok {
			return nil, fmt.Errorf("no evaluator registered for criterion kind %s", criterion.Kind)
		}
		score, ok := evaluator.Evaluate(profile, criterion, now)
		if !ok {
			continue
		}
		breakdown[criterion.Kind] = round2(score)
		totalWeighted += score * criterion.Weight
		totalWeight += criterion.Weight
	}

	var overall float64
	if totalWeight > 0 {
		overall = totalWeighted / totalWeight
	}
	overall = round2(clamp(overall, 0, 100))

	return &Result{
		ProfileID:    profile.ID,
		TenantID:     profile.TenantID,
		Category:     category,
		OverallScore: overall,
		Breakdown:    breakdown,
		Tier:         e.thresholds.Classify(overall, category),
		ComputedAt:   now.UTC(),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
