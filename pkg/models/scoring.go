package models

import (
	"errors"
	"fmt"
)

// FormulaConfig contains the constants controlling the facet and steering formulas.
type FormulaConfig struct {
	// ConfidenceMax is the asymptotic confidence ceiling (C_max).
	ConfidenceMax float64 `json:"confidence_max" yaml:"confidence_max"`

	// ConfidenceRate is the saturation rate k in C_max·(1−e^(−k·W)).
	ConfidenceRate float64 `json:"confidence_rate" yaml:"confidence_rate"`

	// ConfidenceTarget is the confidence a facet should reach before it stops
	// attracting steering priority.
	ConfidenceTarget float64 `json:"confidence_target" yaml:"confidence_target"`

	// SignalPowerTarget is the signal power a facet should reach before it stops
	// attracting steering priority.
	SignalPowerTarget float64 `json:"signal_power_target" yaml:"signal_power_target"`

	// Alpha weights the confidence gap in the facet priority.
	Alpha float64 `json:"alpha" yaml:"alpha"`

	// Beta weights the signal power gap in the facet priority.
	Beta float64 `json:"beta" yaml:"beta"`

	// VolumeRate is the saturation rate of the volume term V = 1−e^(−rate·W).
	VolumeRate float64 `json:"volume_rate" yaml:"volume_rate"`

	// SwitchPenalty (lambda) scales the flat domain switch cost.
	SwitchPenalty float64 `json:"switch_penalty" yaml:"switch_penalty"`

	// ExpectedConfidence (cBar) is the confidence assumed for a hypothetical
	// next evidence item when estimating marginal weight.
	ExpectedConfidence float64 `json:"expected_confidence" yaml:"expected_confidence"`

	// Epsilon keeps every denominator non-zero.
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`

	// ScoreMidpoint is the default score reported for facets without evidence.
	ScoreMidpoint float64 `json:"score_midpoint" yaml:"score_midpoint"`
}

// DefaultFormulaConfig returns the default formula configuration.
func DefaultFormulaConfig() *FormulaConfig {
	return &FormulaConfig{
		ConfidenceMax:      0.9,
		ConfidenceRate:     0.7,
		ConfidenceTarget:   0.75,
		SignalPowerTarget:  0.5,
		Alpha:              1.0,
		Beta:               0.8,
		VolumeRate:         0.7,
		SwitchPenalty:      0.3,
		ExpectedConfidence: 0.5,
		Epsilon:            1e-10,
		ScoreMidpoint:      10,
	}
}

// MaxPriority is the priority of a facet with no evidence at all.
func (c *FormulaConfig) MaxPriority() float64 {
	return c.Alpha*c.ConfidenceTarget + c.Beta*c.SignalPowerTarget
}

// Validate checks that an externally supplied configuration keeps the formulas
// inside their documented ranges. The engine never calls this; it is meant for
// configuration boundaries.
func (c *FormulaConfig) Validate() error {
	var errs []error
	if c.ConfidenceMax <= 0 || c.ConfidenceMax > 1 {
		errs = append(errs, fmt.Errorf("confidence_max %.4f must be in (0,1]", c.ConfidenceMax))
	}
	if c.ConfidenceTarget < 0 || c.ConfidenceTarget > c.ConfidenceMax {
		errs = append(errs, fmt.Errorf("confidence_target %.4f must be in [0,confidence_max]", c.ConfidenceTarget))
	}
	if c.SignalPowerTarget < 0 || c.SignalPowerTarget > 1 {
		errs = append(errs, fmt.Errorf("signal_power_target %.4f must be in [0,1]", c.SignalPowerTarget))
	}
	if c.ExpectedConfidence < 0 || c.ExpectedConfidence > 1 {
		errs = append(errs, fmt.Errorf("expected_confidence %.4f must be in [0,1]", c.ExpectedConfidence))
	}
	if c.ScoreMidpoint < MinScore || c.ScoreMidpoint > MaxScore {
		errs = append(errs, fmt.Errorf("score_midpoint %.4f must be in [%g,%g]", c.ScoreMidpoint, MinScore, MaxScore))
	}
	if c.Epsilon <= 0 {
		errs = append(errs, fmt.Errorf("epsilon must be positive, got %g", c.Epsilon))
	}
	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"confidence_rate", c.ConfidenceRate},
		{"volume_rate", c.VolumeRate},
		{"alpha", c.Alpha},
		{"beta", c.Beta},
		{"switch_penalty", c.SwitchPenalty},
	} {
		if rate.value < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative, got %g", rate.name, rate.value))
		}
	}
	return errors.Join(errs...)
}
