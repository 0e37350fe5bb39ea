// Package coverage expands partial facet metrics into a complete 30-facet,
// 5-trait result and reports how evidence is spread across life domains.
package coverage

import (
	"github.com/thebtf/facetscope/pkg/models"
)

// FacetResult is the reported state of one facet.
type FacetResult struct {
	Facet         models.FacetName `json:"facet"`
	Trait         models.Trait     `json:"trait"`
	Score         float64          `json:"score"`
	Confidence    float64          `json:"confidence"`
	SignalPower   float64          `json:"signal_power"`
	EvidenceCount int              `json:"evidence_count"`
	Explored      bool             `json:"explored"`
}

// TraitResult is the arithmetic mean of a trait's six facets.
type TraitResult struct {
	Trait          models.Trait `json:"trait"`
	Score          float64      `json:"score"`
	Confidence     float64      `json:"confidence"`
	SignalPower    float64      `json:"signal_power"`
	ExploredFacets int          `json:"explored_facets"`
}

// DomainCoverage describes how raw evidence counts spread across domains.
type DomainCoverage struct {
	Counts    map[models.LifeDomain]int     `json:"counts"`
	Fractions map[models.LifeDomain]float64 `json:"fractions"`
	Total     int                           `json:"total"`
	// SteerableTouched is the number of steerable domains with any evidence.
	SteerableTouched int `json:"steerable_touched"`
}

// Result is the complete coverage report.
type Result struct {
	Facets  []FacetResult  `json:"facets"`
	Traits  []TraitResult  `json:"traits"`
	Domains DomainCoverage `json:"domains"`
}

// Facet returns the result for f, or false if f is not a known facet.
func (r *Result) Facet(f models.FacetName) (FacetResult, bool) {
	for _, fr := range r.Facets {
		if fr.Facet == f {
			return fr, true
		}
	}
	return FacetResult{}, false
}

// Trait returns the aggregate for t, or false if t is not a known trait.
func (r *Result) Trait(t models.Trait) (TraitResult, bool) {
	for _, tr := range r.Traits {
		if tr.Trait == t {
			return tr, true
		}
	}
	return TraitResult{}, false
}

// Build expands metrics to all 30 facets and computes trait aggregates and
// domain coverage. Facets missing from metrics default to
// {ScoreMidpoint, 0, 0}. If cfg is nil, uses the default configuration.
func Build(evidence []models.EvidenceInput, metrics map[models.FacetName]models.FacetMetrics, cfg *models.FormulaConfig) *Result {
	if cfg == nil {
		cfg = models.DefaultFormulaConfig()
	}

	counts := make(map[models.FacetName]int)
	for _, e := range evidence {
		counts[e.Facet]++
	}

	result := &Result{
		Facets:  make([]FacetResult, 0, len(models.AllFacets)),
		Traits:  make([]TraitResult, 0, len(models.AllTraits)),
		Domains: Domains(evidence),
	}

	for _, trait := range models.AllTraits {
		agg := TraitResult{Trait: trait}
		for _, facet := range models.TraitFacets[trait] {
			fr := FacetResult{
				Facet:         facet,
				Trait:         trait,
				Score:         cfg.ScoreMidpoint,
				EvidenceCount: counts[facet],
			}
			if m, ok := metrics[facet]; ok {
				fr.Score = m.Score
				fr.Confidence = m.Confidence
				fr.SignalPower = m.SignalPower
				fr.Explored = true
				agg.ExploredFacets++
			}
			result.Facets = append(result.Facets, fr)

			agg.Score += fr.Score
			agg.Confidence += fr.Confidence
			agg.SignalPower += fr.SignalPower
		}
		n := float64(len(models.TraitFacets[trait]))
		agg.Score /= n
		agg.Confidence /= n
		agg.SignalPower /= n
		result.Traits = append(result.Traits, agg)
	}

	return result
}

// Domains returns the fraction of evidence items observed in each of the six
// domains. Empty evidence yields all zeros.
func Domains(evidence []models.EvidenceInput) DomainCoverage {
	dc := DomainCoverage{
		Counts:    make(map[models.LifeDomain]int, len(models.AllDomains)),
		Fractions: make(map[models.LifeDomain]float64, len(models.AllDomains)),
	}
	for _, d := range models.AllDomains {
		dc.Counts[d] = 0
	}
	for _, e := range evidence {
		if _, known := dc.Counts[e.Domain]; known {
			dc.Counts[e.Domain]++
			dc.Total++
		}
	}

	for _, d := range models.AllDomains {
		if dc.Total > 0 {
			dc.Fractions[d] = float64(dc.Counts[d]) / float64(dc.Total)
		} else {
			dc.Fractions[d] = 0
		}
		if d.IsSteerable() && dc.Counts[d] > 0 {
			dc.SteerableTouched++
		}
	}
	return dc
}
