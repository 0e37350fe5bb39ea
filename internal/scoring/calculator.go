// Package scoring computes per-facet score, confidence and signal power from
// personality evidence.
package scoring

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/thebtf/facetscope/pkg/models"
)

// Calculator computes facet metrics from evidence.
type Calculator struct {
	config *models.FormulaConfig
}

// NewCalculator creates a new facet metrics calculator.
// If config is nil, uses the default configuration.
func NewCalculator(config *models.FormulaConfig) *Calculator {
	if config == nil {
		config = models.DefaultFormulaConfig()
	}
	return &Calculator{config: config}
}

// FacetComponents contains the breakdown of a facet's metrics.
type FacetComponents struct {
	Score         float64                       `json:"score"`
	Confidence    float64                       `json:"confidence"`
	SignalPower   float64                       `json:"signal_power"`
	TotalWeight   float64                       `json:"total_weight"`
	Volume        float64                       `json:"volume"`
	Diversity     float64                       `json:"diversity"`
	EvidenceCount int                           `json:"evidence_count"`
	DomainWeights map[models.LifeDomain]float64 `json:"domain_weights"`
	DomainMeans   map[models.LifeDomain]float64 `json:"domain_means"`
}

// Metrics returns the public metrics snapshot for the facet.
func (fc FacetComponents) Metrics() models.FacetMetrics {
	return models.FacetMetrics{
		Score:         fc.Score,
		Confidence:    fc.Confidence,
		SignalPower:   fc.SignalPower,
		DomainWeights: fc.DomainWeights,
	}
}

// Calculate computes metrics for every facet that has at least one evidence item.
// Facets without evidence are absent from the result.
func (c *Calculator) Calculate(evidence []models.EvidenceInput) map[models.FacetName]models.FacetMetrics {
	components := c.CalculateComponents(evidence)
	result := make(map[models.FacetName]models.FacetMetrics, len(components))
	for facet, fc := range components {
		result[facet] = fc.Metrics()
	}
	return result
}

// CalculateComponents computes the metric breakdown for every evidenced facet.
func (c *Calculator) CalculateComponents(evidence []models.EvidenceInput) map[models.FacetName]FacetComponents {
	grouped := groupByFacet(evidence)
	result := make(map[models.FacetName]FacetComponents, len(grouped))
	for facet, items := range grouped {
		result[facet] = c.CalculateFacet(items)
	}
	return result
}

// CalculateParallel is Calculate with facets computed concurrently.
// Facets are independent, so the result is identical to Calculate.
// The only error returned is the context's.
func (c *Calculator) CalculateParallel(ctx context.Context, evidence []models.EvidenceInput) (map[models.FacetName]models.FacetMetrics, error) {
	grouped := groupByFacet(evidence)

	var mu sync.Mutex
	result := make(map[models.FacetName]models.FacetMetrics, len(grouped))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for facet, items := range grouped {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m := c.CalculateFacet(items).Metrics()
			mu.Lock()
			result[facet] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// CalculateFacet computes the metrics of a single facet from its evidence.
// Every item is assumed to belong to the same facet.
//
// The formula:
//
//	w_g   = sqrt(Σ c)                         per domain group g
//	μ_g   = Σ(c·s) / (Σc + ε)
//	Score = Σ(w_g·μ_g) / (Σw_g + ε)
//	W     = Σ w_g
//	Confidence  = C_max·(1 − e^(−k·W))
//	SignalPower = (1 − e^(−βv·W)) · H(w)      H = normalized entropy
//
// Both means carry ε in the denominator, so Score is biased slightly toward
// zero: a single item (s=14, c=0.6) scores 14·0.6/(0.6+ε), not exactly 14.
func (c *Calculator) CalculateFacet(items []models.EvidenceInput) FacetComponents {
	byDomain := groupByDomain(items)

	weights := make(map[models.LifeDomain]float64, len(byDomain))
	means := make(map[models.LifeDomain]float64, len(byDomain))

	var weightedSum, totalWeight float64
	for _, domain := range models.AllDomains {
		group, ok := byDomain[domain]
		if !ok {
			continue
		}
		scores, confidences := split(group)
		w := ContextWeight(confidences)
		mu := ContextMean(scores, confidences, c.config.Epsilon)

		weights[domain] = w
		means[domain] = mu
		weightedSum += w * mu
		totalWeight += w
	}

	volume := Volume(c.config, totalWeight)
	diversity := NormalizedEntropy(weights)

	return FacetComponents{
		Score:         weightedSum / (totalWeight + c.config.Epsilon),
		Confidence:    Confidence(c.config, totalWeight),
		SignalPower:   volume * diversity,
		TotalWeight:   totalWeight,
		Volume:        volume,
		Diversity:     diversity,
		EvidenceCount: len(items),
		DomainWeights: weights,
		DomainMeans:   means,
	}
}

// GetConfig returns the calculator's formula configuration.
func (c *Calculator) GetConfig() *models.FormulaConfig {
	return c.config
}

func groupByFacet(evidence []models.EvidenceInput) map[models.FacetName][]models.EvidenceInput {
	grouped := make(map[models.FacetName][]models.EvidenceInput)
	for _, e := range evidence {
		grouped[e.Facet] = append(grouped[e.Facet], e)
	}
	return grouped
}

// groupByDomain buckets items by domain. Each bucket is sorted so that sums
// are bit-identical regardless of the order evidence arrived in.
func groupByDomain(items []models.EvidenceInput) map[models.LifeDomain][]models.EvidenceInput {
	grouped := make(map[models.LifeDomain][]models.EvidenceInput)
	for _, e := range items {
		grouped[e.Domain] = append(grouped[e.Domain], e)
	}
	for _, group := range grouped {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Score != group[j].Score {
				return group[i].Score < group[j].Score
			}
			return group[i].Confidence < group[j].Confidence
		})
	}
	return grouped
}

func split(group []models.EvidenceInput) (scores, confidences []float64) {
	scores = make([]float64, len(group))
	confidences = make([]float64, len(group))
	for i, e := range group {
		scores[i] = e.Score
		confidences[i] = e.Confidence
	}
	return scores, confidences
}
