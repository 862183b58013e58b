package pipeline

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/conveyor/errors"
	"github.com/kbukum/conveyor/logger"
	"github.com/kbukum/conveyor/observability"
)

const tracerName = "github.com/kbukum/conveyor/pipeline"

// startSpan opens the span covering one full run.
func (r *run[Q, R]) startSpan(ctx context.Context) (context.Context, trace.Span) {
	return observability.Tracer(tracerName).Start(ctx, "conveyor.pipeline.run",
		trace.WithAttributes(
			attribute.String("pipeline.name", r.cfg.Name),
			attribute.String("pipeline.run_id", r.id),
			attribute.Int("pipeline.workers", r.cfg.Workers),
			attribute.Int("pipeline.queue_capacity", r.cfg.queueCapacity()),
		))
}

// finishSpan records the run outcome on the span and metric instruments.
func (r *run[Q, R]) finishSpan(ctx context.Context, span trace.Span, stats Stats) {
	span.SetAttributes(attribute.Int64("pipeline.processed", stats.Processed))

	status := "ok"
	if r.runErr != nil {
		status = "error"
		span.RecordError(r.runErr)
		span.SetStatus(codes.Error, r.runErr.Error())
		r.cfg.Metrics.RecordRunError(ctx, r.cfg.Name, string(errors.CodeOf(r.runErr)))
	}

	r.cfg.Metrics.RecordItems(ctx, r.cfg.Name, stats.Processed)
	r.cfg.Metrics.RecordRun(ctx, r.cfg.Name, status, stats.Duration)
	span.End()
}

// watchQueueDepth exposes the bounded queue's depth as an observable
// gauge while the run is live.
func (r *run[Q, R]) watchQueueDepth() func() {
	unwatch, err := r.cfg.Metrics.WatchQueueDepth(r.cfg.Name, func() int64 {
		return int64(r.work.Len())
	})
	if err != nil {
		r.log.Warn("queue depth gauge unavailable", logger.ErrorFields("watch_queue_depth", err))
		return func() {}
	}
	return unwatch
}
