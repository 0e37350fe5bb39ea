package models

// Score bounds for evidence and facet scores.
const (
	MinScore = 0.0
	MaxScore = 20.0
)

// EvidenceInput is a single observed personality signal.
type EvidenceInput struct {
	Facet      FacetName  `json:"facet" yaml:"facet"`
	Domain     LifeDomain `json:"domain" yaml:"domain"`
	Score      float64    `json:"score" yaml:"score"`           // 0-20
	Confidence float64    `json:"confidence" yaml:"confidence"` // 0-1
}

// FacetMetrics is the derived per-facet snapshot.
// DomainWeights only holds domains that have evidence.
type FacetMetrics struct {
	Score         float64                `json:"score"`
	Confidence    float64                `json:"confidence"`
	SignalPower   float64                `json:"signal_power"`
	DomainWeights map[LifeDomain]float64 `json:"domain_weights"`
}

// TotalWeight returns the sum of the domain weights, summed in canonical domain order.
func (m FacetMetrics) TotalWeight() float64 {
	total := 0.0
	for _, d := range AllDomains {
		total += m.DomainWeights[d]
	}
	return total
}

// SteeringTarget is the next (facet, domain) pair to explore.
type SteeringTarget struct {
	TargetFacet  FacetName  `json:"target_facet"`
	TargetDomain LifeDomain `json:"target_domain"`
	SteeringHint string     `json:"steering_hint"`
	BestPriority float64    `json:"best_priority"`
	ColdStart    bool       `json:"cold_start,omitempty"`
}
