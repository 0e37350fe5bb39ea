package scoring

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/thebtf/facetscope/pkg/models"
)

// CalculatorSuite is a test suite for the Calculator.
type CalculatorSuite struct {
	suite.Suite
	calc   *Calculator
	config *models.FormulaConfig
}

func (s *CalculatorSuite) SetupTest() {
	s.config = models.DefaultFormulaConfig()
	s.calc = NewCalculator(s.config)
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorSuite))
}

func ev(facet models.FacetName, domain models.LifeDomain, score, confidence float64) models.EvidenceInput {
	return models.EvidenceInput{Facet: facet, Domain: domain, Score: score, Confidence: confidence}
}

// =============================================================================
// GOOD SCENARIOS - Expected normal operations
// =============================================================================

func (s *CalculatorSuite) TestCalculate_GoodScenarios_MultiDomainFacet() {
	s.config.ConfidenceRate = 0.6
	s.config.VolumeRate = 0.6

	evidence := []models.EvidenceInput{
		ev(models.FacetOrderliness, models.DomainWork, 18, 0.8),
		ev(models.FacetOrderliness, models.DomainWork, 17, 0.7),
		ev(models.FacetOrderliness, models.DomainWork, 16, 0.6),
		ev(models.FacetOrderliness, models.DomainRelationships, 14, 0.6),
		ev(models.FacetOrderliness, models.DomainFamily, 6, 0.7),
	}

	metrics := s.calc.Calculate(evidence)
	s.Require().Len(metrics, 1)
	m := metrics[models.FacetOrderliness]

	s.InDelta(math.Sqrt(2.1), m.DomainWeights[models.DomainWork], 1e-12)
	s.InDelta(math.Sqrt(0.6), m.DomainWeights[models.DomainRelationships], 1e-12)
	s.InDelta(math.Sqrt(0.7), m.DomainWeights[models.DomainFamily], 1e-12)
	s.Len(m.DomainWeights, 3)

	w := math.Sqrt(2.1) + math.Sqrt(0.6) + math.Sqrt(0.7)
	s.InDelta(3.061, w, 0.001)
	s.InDelta(0.9*(1-math.Exp(-0.6*w)), m.Confidence, 1e-9)

	expectedScore := (math.Sqrt(2.1)*(35.9/2.1) + math.Sqrt(0.6)*14 + math.Sqrt(0.7)*6) / w
	s.InDelta(expectedScore, m.Score, 1e-6)

	fc := s.calc.CalculateComponents(evidence)[models.FacetOrderliness]
	s.InDelta(w, fc.TotalWeight, 1e-12)
	s.InDelta(fc.Volume*fc.Diversity, m.SignalPower, 1e-12)
	s.Greater(fc.Diversity, 0.0)
	s.Less(fc.Diversity, 1.0)
	s.Equal(5, fc.EvidenceCount)
	s.InDelta(14, fc.DomainMeans[models.DomainRelationships], 1e-6)
}

func (s *CalculatorSuite) TestCalculate_GoodScenarios_SingleEvidence() {
	metrics := s.calc.Calculate([]models.EvidenceInput{
		ev(models.FacetTrust, models.DomainLeisure, 14, 0.6),
	})

	m := metrics[models.FacetTrust]
	s.InDelta(14, m.Score, 1e-6)
	// ε in both denominators pulls the score just under the raw value.
	s.Less(m.Score, 14.0)
	s.Equal(0.0, m.SignalPower)
	s.InDelta(0.9*(1-math.Exp(-0.7*math.Sqrt(0.6))), m.Confidence, 1e-12)
}

func (s *CalculatorSuite) TestCalculate_GoodScenarios_BalancedDomainsFullDiversity() {
	var evidence []models.EvidenceInput
	for _, d := range models.SteerableDomains {
		evidence = append(evidence, ev(models.FacetAltruism, d, 12, 0.6))
	}

	fc := s.calc.CalculateComponents(evidence)[models.FacetAltruism]
	s.Equal(1.0, fc.Diversity)
	s.InDelta(fc.Volume, fc.SignalPower, 1e-15)
	s.InDelta(12, fc.Score, 1e-6)
}

func (s *CalculatorSuite) TestCalculate_GoodScenarios_OnlyEvidencedFacetsPresent() {
	metrics := s.calc.Calculate([]models.EvidenceInput{
		ev(models.FacetAnxiety, models.DomainWork, 5, 0.5),
		ev(models.FacetIntellect, models.DomainSolo, 15, 0.5),
	})

	s.Len(metrics, 2)
	s.Contains(metrics, models.FacetAnxiety)
	s.Contains(metrics, models.FacetIntellect)
	s.NotContains(metrics, models.FacetTrust)
}

func (s *CalculatorSuite) TestCalculate_GoodScenarios_FacetIsolation() {
	base := []models.EvidenceInput{
		ev(models.FacetCheerfulness, models.DomainWork, 15, 0.8),
		ev(models.FacetCheerfulness, models.DomainFamily, 11, 0.4),
	}
	before := s.calc.Calculate(base)[models.FacetCheerfulness]

	noisy := append([]models.EvidenceInput{}, base...)
	noisy = append(noisy,
		ev(models.FacetAnger, models.DomainWork, 2, 1),
		ev(models.FacetAnger, models.DomainFamily, 20, 0.9),
		ev(models.FacetModesty, models.DomainOther, 7, 0.3),
	)
	after := s.calc.Calculate(noisy)[models.FacetCheerfulness]

	s.Equal(before, after)
}

func (s *CalculatorSuite) TestCalculate_GoodScenarios_OrderIndependent() {
	rng := rand.New(rand.NewPCG(7, 11))
	evidence := randomEvidence(rng, 200)

	want := s.calc.Calculate(evidence)
	for i := 0; i < 10; i++ {
		shuffled := append([]models.EvidenceInput{}, evidence...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		s.Equal(want, s.calc.Calculate(shuffled), "shuffle %d", i)
	}
}

func (s *CalculatorSuite) TestCalculate_GoodScenarios_AntiRedundancy() {
	one := s.calc.CalculateComponents([]models.EvidenceInput{
		ev(models.FacetDutifulness, models.DomainWork, 16, 0.5),
	})[models.FacetDutifulness]

	var nine []models.EvidenceInput
	for i := 0; i < 9; i++ {
		nine = append(nine, ev(models.FacetDutifulness, models.DomainWork, 16, 0.5))
	}
	many := s.calc.CalculateComponents(nine)[models.FacetDutifulness]

	s.InDelta(3*one.TotalWeight, many.TotalWeight, 1e-12)
	s.InDelta(one.Score, many.Score, 1e-6)
	s.Equal(0.0, many.SignalPower, "a single domain never produces signal power")
}

func (s *CalculatorSuite) TestCalculate_GoodScenarios_OtherDomainCountsTowardDiversity() {
	fc := s.calc.CalculateComponents([]models.EvidenceInput{
		ev(models.FacetSympathy, models.DomainOther, 13, 0.7),
		ev(models.FacetSympathy, models.DomainFamily, 13, 0.7),
	})[models.FacetSympathy]

	s.Equal(1.0, fc.Diversity)
	s.Greater(fc.SignalPower, 0.0)
}

// =============================================================================
// WORSE SCENARIOS - Degraded but acceptable operations
// =============================================================================

func (s *CalculatorSuite) TestCalculate_WorseScenarios_AllZeroConfidence() {
	fc := s.calc.CalculateComponents([]models.EvidenceInput{
		ev(models.FacetImmoderation, models.DomainWork, 19, 0),
		ev(models.FacetImmoderation, models.DomainSolo, 3, 0),
	})[models.FacetImmoderation]

	for _, v := range []float64{fc.Score, fc.Confidence, fc.SignalPower, fc.Volume, fc.Diversity} {
		s.False(math.IsNaN(v))
		s.False(math.IsInf(v, 0))
	}
	s.Equal(0.0, fc.Confidence)
	s.Equal(0.0, fc.SignalPower)
}

func (s *CalculatorSuite) TestCalculate_WorseScenarios_HeavyEvidenceStaysBounded() {
	var evidence []models.EvidenceInput
	for i := 0; i < 500; i++ {
		d := models.AllDomains[i%len(models.AllDomains)]
		evidence = append(evidence, ev(models.FacetAssertiveness, d, 20, 1))
	}

	m := s.calc.Calculate(evidence)[models.FacetAssertiveness]
	s.LessOrEqual(m.Confidence, s.config.ConfidenceMax)
	s.LessOrEqual(m.SignalPower, 1.0)
	s.LessOrEqual(m.Score, models.MaxScore)
	s.InDelta(20, m.Score, 1e-6)
}

// =============================================================================
// BAD SCENARIOS - Empty or degenerate input
// =============================================================================

func (s *CalculatorSuite) TestCalculate_BadScenarios_EmptyEvidence() {
	s.Empty(s.calc.Calculate(nil))
	s.Empty(s.calc.CalculateComponents([]models.EvidenceInput{}))
}

func TestNewCalculator_NilConfigUsesDefaults(t *testing.T) {
	calc := NewCalculator(nil)
	require.NotNil(t, calc.GetConfig())
	assert.Equal(t, models.DefaultFormulaConfig(), calc.GetConfig())
}

func TestCalculate_InvariantsHold(t *testing.T) {
	calc := NewCalculator(nil)
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 50; round++ {
		metrics := calc.Calculate(randomEvidence(rng, 1+rng.IntN(120)))
		for facet, m := range metrics {
			assert.GreaterOrEqual(t, m.Score, 0.0, "%s score", facet)
			assert.LessOrEqual(t, m.Score, models.MaxScore, "%s score", facet)
			assert.GreaterOrEqual(t, m.Confidence, 0.0, "%s confidence", facet)
			assert.LessOrEqual(t, m.Confidence, calc.GetConfig().ConfidenceMax, "%s confidence", facet)
			assert.GreaterOrEqual(t, m.SignalPower, 0.0, "%s signal power", facet)
			assert.LessOrEqual(t, m.SignalPower, 1.0, "%s signal power", facet)
			for d, w := range m.DomainWeights {
				assert.GreaterOrEqual(t, w, 0.0, "%s/%s weight", facet, d)
			}
		}
	}
}

func TestCalculateParallel_MatchesSequential(t *testing.T) {
	calc := NewCalculator(nil)
	evidence := randomEvidence(rand.New(rand.NewPCG(3, 4)), 300)

	got, err := calc.CalculateParallel(context.Background(), evidence)
	require.NoError(t, err)
	assert.Equal(t, calc.Calculate(evidence), got)
}

func TestCalculateParallel_CancelledContext(t *testing.T) {
	calc := NewCalculator(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.CalculateParallel(ctx, randomEvidence(rand.New(rand.NewPCG(5, 6)), 50))
	assert.ErrorIs(t, err, context.Canceled)
}

func randomEvidence(rng *rand.Rand, n int) []models.EvidenceInput {
	evidence := make([]models.EvidenceInput, n)
	for i := range evidence {
		evidence[i] = models.EvidenceInput{
			Facet:      models.AllFacets[rng.IntN(len(models.AllFacets))],
			Domain:     models.AllDomains[rng.IntN(len(models.AllDomains))],
			Score:      math.Round(rng.Float64()*200) / 10,
			Confidence: math.Round(rng.Float64()*100) / 100,
		}
	}
	return evidence
}
