package scoring

import (
	"math"

	"github.com/thebtf/facetscope/pkg/models"
)

// ContextWeight returns the anti-redundancy weight of a group of evidence:
// sqrt(sum(confidences)). N identical items weigh sqrt(N) times one item.
func ContextWeight(confidences []float64) float64 {
	sum := 0.0
	for _, c := range confidences {
		sum += c
	}
	return math.Sqrt(sum)
}

// ContextMean returns the confidence-weighted mean score of a group of evidence.
// epsilon keeps the result finite when every confidence is zero.
func ContextMean(scores, confidences []float64, epsilon float64) float64 {
	var weighted, total float64
	for i := range scores {
		if i >= len(confidences) {
			break
		}
		weighted += confidences[i] * scores[i]
		total += confidences[i]
	}
	return weighted / (total + epsilon)
}

// NormalizedEntropy returns the Shannon entropy of the domain weight
// distribution normalized by ln(n), where n is the number of non-zero weights.
// Fewer than two non-zero weights carry no diversity signal and yield 0.
// Exactly equal non-zero weights yield exactly 1.
func NormalizedEntropy(weights map[models.LifeDomain]float64) float64 {
	nonZero := make([]float64, 0, len(models.AllDomains))
	for _, d := range models.AllDomains {
		if w := weights[d]; w > 0 {
			nonZero = append(nonZero, w)
		}
	}
	return entropy(nonZero)
}

func entropy(weights []float64) float64 {
	n := len(weights)
	if n <= 1 {
		return 0
	}

	total := 0.0
	uniform := true
	for _, w := range weights {
		total += w
		if w != weights[0] {
			uniform = false
		}
	}
	if uniform {
		return 1
	}

	h := 0.0
	for _, w := range weights {
		p := w / total
		h -= p * math.Log(p)
	}
	h /= math.Log(float64(n))

	// Guard against rounding just outside [0,1].
	return math.Max(0, math.Min(1, h))
}

// ProjectedEntropy returns the normalized entropy the weights would have if
// domain gained delta more weight. weights is not modified.
func ProjectedEntropy(weights map[models.LifeDomain]float64, domain models.LifeDomain, delta float64) float64 {
	projected := make(map[models.LifeDomain]float64, len(weights)+1)
	for d, w := range weights {
		projected[d] = w
	}
	projected[domain] += delta
	return NormalizedEntropy(projected)
}

// saturate returns 1−e^(−rate·w), the shared growth curve of confidence and volume.
func saturate(rate, w float64) float64 {
	return 1 - math.Exp(-rate*w)
}

// Volume returns the saturating evidence volume for total weight w.
func Volume(cfg *models.FormulaConfig, w float64) float64 {
	return saturate(cfg.VolumeRate, w)
}

// Confidence returns C_max·(1−e^(−k·w)) for total weight w.
func Confidence(cfg *models.FormulaConfig, w float64) float64 {
	return cfg.ConfidenceMax * saturate(cfg.ConfidenceRate, w)
}
