package assessment

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/thebtf/facetscope/internal/assessment"

// instruments holds the OpenTelemetry instruments recorded per assessment.
type instruments struct {
	decisions  metric.Int64Counter
	coldStarts metric.Int64Counter
	failures   metric.Int64Counter
	evidence   metric.Int64Histogram
}

func newInstruments(log zerolog.Logger) *instruments {
	meter := otel.GetMeterProvider().Meter(meterName)
	fallback := noop.NewMeterProvider().Meter(meterName)

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			log.Warn().Err(err).Str("instrument", name).Msg("failed to create counter, metrics disabled for it")
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}

	evidence, err := meter.Int64Histogram("facetscope.assessment.evidence",
		metric.WithDescription("Evidence items per assessed session"),
		metric.WithUnit("{item}"))
	if err != nil {
		log.Warn().Err(err).Msg("failed to create evidence histogram, metrics disabled for it")
		evidence, _ = fallback.Int64Histogram("facetscope.assessment.evidence")
	}

	return &instruments{
		decisions:  counter("facetscope.steering.decisions", "Steering targets chosen, by domain"),
		coldStarts: counter("facetscope.steering.cold_starts", "Steering targets served from the cold-start pool"),
		failures:   counter("facetscope.assessment.failures", "Assessments that returned an error"),
		evidence:   evidence,
	}
}

func (i *instruments) record(ctx context.Context, a *Assessment) {
	attrs := metric.WithAttributes(
		attribute.String("domain", string(a.Target.TargetDomain)),
		attribute.Bool("cold_start", a.Target.ColdStart),
	)
	i.decisions.Add(ctx, 1, attrs)
	if a.Target.ColdStart {
		i.coldStarts.Add(ctx, 1)
	}
	i.evidence.Record(ctx, int64(a.EvidenceCount))
}

func (i *instruments) failure(ctx context.Context) {
	i.failures.Add(ctx, 1)
}
