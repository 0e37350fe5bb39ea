// Package assessment runs the facet engine for a session: it fetches the
// session's evidence, computes facet metrics and coverage, and picks the next
// steering target.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/thebtf/facetscope/internal/coverage"
	"github.com/thebtf/facetscope/internal/evidence"
	"github.com/thebtf/facetscope/internal/scoring"
	"github.com/thebtf/facetscope/internal/steering"
	"github.com/thebtf/facetscope/pkg/models"
)

// Request identifies one assessment.
type Request struct {
	SessionID string `json:"session_id"`
	// PreviousDomain is the domain probed on the previous turn, or empty.
	PreviousDomain models.LifeDomain `json:"previous_domain,omitempty"`
	// Turn rotates the cold-start seed while the session has no evidence.
	Turn int `json:"turn"`
}

// key identifies requests that may share one computation. The generation keeps
// requests made after UpdateConfig from joining a call still on the old engine.
func (r Request) key(generation uint64) string {
	return fmt.Sprintf("%d|%s|%s|%d", generation, r.SessionID, r.PreviousDomain, r.Turn)
}

// Assessment is the result of one Assess call. It may be shared between
// concurrent callers of the same request and must be treated as read-only.
type Assessment struct {
	SessionID     string                                   `json:"session_id"`
	EvidenceCount int                                      `json:"evidence_count"`
	Metrics       map[models.FacetName]models.FacetMetrics `json:"metrics"`
	Coverage      *coverage.Result                         `json:"coverage"`
	Target        models.SteeringTarget                    `json:"target"`
	Ranking       []steering.DomainScore                   `json:"ranking,omitempty"`
}

// engine is an immutable snapshot of the components built from one FormulaConfig.
type engine struct {
	generation uint64
	config     *models.FormulaConfig
	calculator *scoring.Calculator
	steerer    *steering.Steerer
}

func newEngine(cfg *models.FormulaConfig, generation uint64) *engine {
	if cfg == nil {
		cfg = models.DefaultFormulaConfig()
	}
	return &engine{
		generation: generation,
		config:     cfg,
		calculator: scoring.NewCalculator(cfg),
		steerer:    steering.NewSteerer(cfg),
	}
}

// Assessor runs assessments against an evidence store.
type Assessor struct {
	log     zerolog.Logger
	store   evidence.Store
	engine  *engine
	metrics *instruments
	group   singleflight.Group
	mu      sync.RWMutex
}

// NewAssessor creates an assessor. If cfg is nil, uses the default configuration.
func NewAssessor(store evidence.Store, cfg *models.FormulaConfig, log zerolog.Logger) *Assessor {
	log = log.With().Str("component", "assessor").Logger()
	return &Assessor{
		log:     log,
		store:   store,
		engine:  newEngine(cfg, 0),
		metrics: newInstruments(log),
	}
}

// Assess computes metrics, coverage and the next steering target for a session.
// A session the store does not know is treated as having no evidence yet.
// Identical concurrent requests under the same configuration share one
// computation. The shared computation is detached from the caller's
// cancellation; a cancelled caller stops waiting and gets ctx.Err() while
// the others still receive the result.
func (a *Assessor) Assess(ctx context.Context, req Request) (*Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	eng := a.engine
	a.mu.RUnlock()

	ch := a.group.DoChan(req.key(eng.generation), func() (any, error) {
		return a.assess(context.WithoutCancel(ctx), eng, req)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			a.log.Debug().Str("session", req.SessionID).Msg("shared in-flight assessment")
		}
		return res.Val.(*Assessment), nil
	}
}

func (a *Assessor) assess(ctx context.Context, eng *engine, req Request) (*Assessment, error) {
	start := time.Now()

	items, err := a.store.GetEvidence(ctx, req.SessionID)
	if err != nil && !errors.Is(err, evidence.ErrSessionNotFound) {
		a.metrics.failure(ctx)
		return nil, fmt.Errorf("get evidence for session %s: %w", req.SessionID, err)
	}

	metrics, err := eng.calculator.CalculateParallel(ctx, items)
	if err != nil {
		a.metrics.failure(ctx)
		return nil, err
	}

	target := eng.steerer.Select(metrics, req.PreviousDomain, req.Turn)
	result := &Assessment{
		SessionID:     req.SessionID,
		EvidenceCount: len(items),
		Metrics:       metrics,
		Coverage:      coverage.Build(items, metrics, eng.config),
		Target:        target,
	}
	if !target.ColdStart {
		result.Ranking = eng.steerer.RankDomains(metrics[target.TargetFacet], req.PreviousDomain)
	}

	a.metrics.record(ctx, result)

	a.log.Debug().
		Str("session", req.SessionID).
		Int("evidence", len(items)).
		Int("facets", len(metrics)).
		Str("facet", string(target.TargetFacet)).
		Str("domain", string(target.TargetDomain)).
		Float64("priority", target.BestPriority).
		Bool("cold_start", target.ColdStart).
		Dur("elapsed", time.Since(start)).
		Msg("assessed session")

	return result, nil
}

// UpdateConfig swaps the formula configuration used by later assessments.
// Assessments already running keep the configuration they started with.
func (a *Assessor) UpdateConfig(cfg *models.FormulaConfig) {
	if cfg == nil {
		return
	}
	a.mu.Lock()
	a.engine = newEngine(cfg, a.engine.generation+1)
	a.mu.Unlock()

	a.log.Info().Msg("formula configuration updated")
}

// GetConfig returns the formula configuration currently in use.
func (a *Assessor) GetConfig() *models.FormulaConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine.config
}
