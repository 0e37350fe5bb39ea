// Package steering picks the next facet and life domain to probe so that
// evidence is gathered broadly rather than repeatedly from the same place.
package steering

import (
	"fmt"
	"math"
	"strings"

	"github.com/thebtf/facetscope/internal/scoring"
	"github.com/thebtf/facetscope/pkg/models"
)

// NoDomain means there was no previous turn.
const NoDomain models.LifeDomain = ""

// Steerer selects steering targets.
type Steerer struct {
	config *models.FormulaConfig
}

// NewSteerer creates a new steerer.
// If config is nil, uses the default configuration.
func NewSteerer(config *models.FormulaConfig) *Steerer {
	if config == nil {
		config = models.DefaultFormulaConfig()
	}
	return &Steerer{config: config}
}

// DomainScore is the evaluation of one candidate domain for a facet.
type DomainScore struct {
	Domain       models.LifeDomain `json:"domain"`
	DeltaWeight  float64           `json:"delta_weight"`
	ExpectedGain float64           `json:"expected_gain"`
	SwitchCost   float64           `json:"switch_cost"`
	Score        float64           `json:"score"`
}

// Select returns the next (facet, domain) to explore.
//
// With no metrics it falls back to the cold-start seed for counter.
// Otherwise the facet is the one with the highest priority
//
//	priority = α·max(0, C_target − confidence) + β·max(0, P_target − signalPower)
//
// ties resolved by models.InterleavedFacets, and the domain is the steerable
// domain with the highest expected signal power gain minus λ·switchCost.
func (s *Steerer) Select(metrics map[models.FacetName]models.FacetMetrics, previous models.LifeDomain, counter int) models.SteeringTarget {
	if len(metrics) == 0 {
		seed := ColdStart(counter)
		return models.SteeringTarget{
			TargetFacet:  seed.Facet,
			TargetDomain: seed.Domain,
			SteeringHint: seed.Hint,
			BestPriority: s.config.MaxPriority(),
			ColdStart:    true,
		}
	}

	facet, priority := s.selectFacet(metrics)
	ranked := s.RankDomains(metrics[facet], previous)
	domain := best(ranked).Domain

	return models.SteeringTarget{
		TargetFacet:  facet,
		TargetDomain: domain,
		SteeringHint: Hint(facet, domain),
		BestPriority: priority,
	}
}

// Priority returns how strongly a facet still needs evidence.
// A facet absent from metrics gets the maximal priority.
func (s *Steerer) Priority(metrics map[models.FacetName]models.FacetMetrics, facet models.FacetName) float64 {
	m, ok := metrics[facet]
	if !ok {
		return s.config.MaxPriority()
	}
	return s.config.Alpha*math.Max(0, s.config.ConfidenceTarget-m.Confidence) +
		s.config.Beta*math.Max(0, s.config.SignalPowerTarget-m.SignalPower)
}

// selectFacet walks the interleaved order and keeps the first facet with the
// strictly highest priority.
func (s *Steerer) selectFacet(metrics map[models.FacetName]models.FacetMetrics) (models.FacetName, float64) {
	bestFacet := models.InterleavedFacets[0]
	bestPriority := math.Inf(-1)
	for _, facet := range models.InterleavedFacets {
		if p := s.Priority(metrics, facet); p > bestPriority {
			bestFacet, bestPriority = facet, p
		}
	}
	return bestFacet, bestPriority
}

// RankDomains scores every steerable domain for a facet, in canonical order.
// m may be the zero value for a facet without evidence.
func (s *Steerer) RankDomains(m models.FacetMetrics, previous models.LifeDomain) []DomainScore {
	total := m.TotalWeight()
	scores := make([]DomainScore, 0, len(models.SteerableDomains))

	for _, domain := range models.SteerableDomains {
		current := m.DomainWeights[domain]
		// Marginal weight of one more item of confidence cBar under the sqrt law.
		delta := math.Sqrt(current*current+s.config.ExpectedConfidence) - current

		volume := scoring.Volume(s.config, total+delta)
		diversity := scoring.ProjectedEntropy(m.DomainWeights, domain, delta)
		gain := volume*diversity - m.SignalPower

		switchCost := 0.0
		if previous != NoDomain && domain != previous {
			switchCost = 1
		}

		scores = append(scores, DomainScore{
			Domain:       domain,
			DeltaWeight:  delta,
			ExpectedGain: gain,
			SwitchCost:   switchCost,
			Score:        gain - s.config.SwitchPenalty*switchCost,
		})
	}
	return scores
}

// best returns the first entry with the highest score.
func best(scores []DomainScore) DomainScore {
	top := scores[0]
	for _, ds := range scores[1:] {
		if ds.Score > top.Score {
			top = ds
		}
	}
	return top
}

// Hint renders a short instruction naming the domain and facet.
func Hint(facet models.FacetName, domain models.LifeDomain) string {
	return fmt.Sprintf("Explore %s in the %s domain", strings.ReplaceAll(string(facet), "_", " "), domain)
}

// GetConfig returns the steerer's formula configuration.
func (s *Steerer) GetConfig() *models.FormulaConfig {
	return s.config
}
