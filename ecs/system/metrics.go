package system

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/milk9111/drillboss/ecs/system"

// EncounterMetrics counts encounter events. A nil *EncounterMetrics is
// valid and records nothing.
type EncounterMetrics struct {
	hits        metric.Int64Counter
	effects     metric.Int64Counter
	transitions metric.Int64Counter
}

// NewEncounterMetrics registers the counters on the global meter provider.
// Without an installed provider every counter is a no-op.
func NewEncounterMetrics() *EncounterMetrics {
	return newEncounterMetrics(otel.Meter(meterName))
}

func newEncounterMetrics(meter metric.Meter) *EncounterMetrics {
	fallback := noop.NewMeterProvider().Meter(meterName)
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}
	return &EncounterMetrics{
		hits:        counter("encounter.hits", "Valid strikes landed on the encounter controller."),
		effects:     counter("encounter.effects.spawned", "Explosion effects spawned."),
		transitions: counter("encounter.phase.transitions", "Encounter phase changes."),
	}
}

func (m *EncounterMetrics) hit() {
	if m == nil {
		return
	}
	m.hits.Add(context.Background(), 1)
}

func (m *EncounterMetrics) effectSpawned() {
	if m == nil {
		return
	}
	m.effects.Add(context.Background(), 1)
}

func (m *EncounterMetrics) transition(phase string) {
	if m == nil {
		return
	}
	m.transitions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("phase", phase)))
}
