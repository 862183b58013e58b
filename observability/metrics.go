package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the metric instruments recorded during a
// pipeline run. A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	meter          metric.Meter
	itemsProcessed metric.Int64Counter
	runDuration    metric.Float64Histogram
	runErrors      metric.Int64Counter
}

// NewPipelineMetrics creates metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	itemsProcessed, err := meter.Int64Counter("pipeline.items.processed",
		metric.WithDescription("Total work items reduced by the aggregator"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.items.processed counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("pipeline.run.duration",
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.run.duration histogram: %w", err)
	}

	runErrors, err := meter.Int64Counter("pipeline.run.errors",
		metric.WithDescription("Pipeline runs that ended in error, by code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.run.errors counter: %w", err)
	}

	return &PipelineMetrics{
		meter:          meter,
		itemsProcessed: itemsProcessed,
		runDuration:    runDuration,
		runErrors:      runErrors,
	}, nil
}

// RecordItems adds n to the processed-items counter for the named pipeline.
func (m *PipelineMetrics) RecordItems(ctx context.Context, pipeline string, n int64) {
	if m == nil {
		return
	}
	m.itemsProcessed.Add(ctx, n, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
	))
}

// RecordRun records a completed run with its status and duration.
func (m *PipelineMetrics) RecordRun(ctx context.Context, pipeline, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("status", status),
	))
}

// RecordRunError counts a failed run by error code.
func (m *PipelineMetrics) RecordRunError(ctx context.Context, pipeline, code string) {
	if m == nil {
		return
	}
	m.runErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("code", code),
	))
}

// WatchQueueDepth registers an observable gauge reporting the work
// queue's depth for the duration of a run. The returned function
// unregisters the callback; call it when the run completes.
func (m *PipelineMetrics) WatchQueueDepth(pipeline string, depth func() int64) (func(), error) {
	if m == nil {
		return func() {}, nil
	}
	gauge, err := m.meter.Int64ObservableGauge("pipeline.queue.depth",
		metric.WithDescription("Current depth of the bounded work queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.queue.depth gauge: %w", err)
	}
	reg, err := m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, depth(), metric.WithAttributes(
			attribute.String("pipeline", pipeline),
		))
		return nil
	}, gauge)
	if err != nil {
		return nil, fmt.Errorf("registering pipeline.queue.depth callback: %w", err)
	}
	return func() { _ = reg.Unregister() }, nil
}
