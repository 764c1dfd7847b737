package scoring

import (
	"errors"
	"fmt"
	"sort"
)

// TenderCategory classifies a procurement opportunity and selects the
// scoring rubric that applies.
type TenderCategory string

const (
	CategoryConstruction TenderCategory = "Construction"
	CategoryServices     TenderCategory = "Services"
	CategoryGoods        TenderCategory = "Goods"
)

// CriterionKind identifies one of the closed set of criterion evaluators.
type CriterionKind string

const (
	KindCIDB    CriterionKind = "CIDB"
	KindBEE     CriterionKind = "BEE"
	KindTax     CriterionKind = "Tax"
	KindGeneral CriterionKind = "General"
)

// ErrUnknownCategory is returned when no rubric is registered for a tender
// category. There is no sensible default rubric, so callers must treat this
// as a hard stop rather than a zero score.
var ErrUnknownCategory = errors.New("unknown tender category")

// Criterion is an immutable weighted scoring criterion. Weights are
// percentages; they need not sum to 100 for a category because the
// aggregator normalizes by the total weight actually scored.
type Criterion struct {
	Kind   CriterionKind `json:"kind"`
	Name   string        `json:"name"`
	Weight float64       `json:"weight"`
	Scheme OrdinalScheme `json:"scheme,omitempty"`
}

// Registry maps tender categories to their ordered criteria. It is built
// once at startup and read-only afterwards; new categories ship as
// configuration, not as a runtime registration API.
type Registry struct {
	rubrics map[TenderCategory][]Criterion
}

// NewRegistry builds a registry from the given rubrics
func NewRegistry(rubrics map[TenderCategory][]Criterion) *Registry {
	return &Registry{rubrics: rubrics}
}

// NewDefaultRegistry returns the registry with the platform's standard
// rubrics for construction, services and goods tenders.
func NewDefaultRegistry() *Registry {
	return NewRegistry(map[TenderCategory][]Criterion{
		CategoryConstruction: {
			{Kind: KindCIDB, Name: "CIDB Grade", Weight: 40, Scheme: CIDBScheme},
			{Kind: KindBEE, Name: "B-BBEE Level", Weight: 30, Scheme: BEEScheme},
			{Kind: KindTax, Name: "Tax Clearance", Weight: 20},
			{Kind: KindGeneral, Name: "Company Registration", Weight: 10},
		},
		CategoryServices: {
			{Kind: KindBEE, Name: "B-BBEE Level", Weight: 50, Scheme: BEEScheme},
			{Kind: KindTax, Name: "Tax Clearance", Weight: 30},
			{Kind: KindGeneral, Name: "Company Registration", Weight: 20},
		},
		CategoryGoods: {
			{Kind: KindBEE, Name: "B-BBEE Level", Weight: 60, Scheme: BEEScheme},
			{Kind: KindTax, Name: "Tax Clearance", Weight: 25},
			{Kind: KindGeneral, Name: "Company Registration", Weight: 15},
		},
	})
}

// CriteriaFor returns the ordered criteria for a category
func (r *Registry) CriteriaFor(category TenderCategory) ([]Criterion, error) {
	criteria, ok := r.rubrics[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return criteria, nil
}

// Categories returns all registered categories in stable order
func (r *Registry) Categories() []TenderCategory {
	categories := make([]TenderCategory, 0, len(r.rubrics))
	for category := range r.rubrics {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}
