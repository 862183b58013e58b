package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/kbukum/conveyor/errors"
	"github.com/kbukum/conveyor/logger"
	"github.com/kbukum/conveyor/queue"
)

// TransformFunc is the parallel computation applied to each work item.
// It is invoked concurrently from up to Workers goroutines and must not
// mutate shared state it does not synchronize itself.
type TransformFunc[Q, R any] func(ctx context.Context, item Q) (R, error)

// ReduceFunc aggregates one result. It is invoked exactly once per
// result, strictly serialized on a single goroutine, and may therefore
// mutate caller-owned state without locking.
type ReduceFunc[R any] func(ctx context.Context, result R) error

// Run executes one parallel map/reduce pass over the work source and
// blocks until every transform has been applied, every result reduced,
// and every spawned goroutine joined.
//
// The first error (a failed source, a transform error or panic, a
// reducer error or panic, or context cancellation) aborts the run: the
// driver stops sourcing items, remaining queued items are drained
// without being transformed or reduced, and the error is returned after
// the full join. No goroutine outlives the call on any path.
func Run[Q, R any](ctx context.Context, cfg Config, work Source[Q], transform TransformFunc[Q, R], reduce ReduceFunc[R]) (Stats, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if work == nil {
		return Stats{}, errors.InvalidConfig("work source must not be nil")
	}
	if transform == nil {
		return Stats{}, errors.InvalidConfig("transform must not be nil")
	}
	if reduce == nil {
		return Stats{}, errors.InvalidConfig("reduce must not be nil")
	}

	workQueue, err := queue.NewBounded[workEntry[Q]](cfg.queueCapacity())
	if err != nil {
		return Stats{}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	id := uuid.NewString()
	r := &run[Q, R]{
		cfg: cfg,
		id:  id,
		log: cfg.Logger.WithFields(logger.Fields(
			logger.FieldPipeline, cfg.Name,
			logger.FieldRunID, id,
		)),
		work:      workQueue,
		results:   queue.NewUnbounded[resultEntry[R]](),
		transform: transform,
		reduce:    reduce,
		cancel:    cancel,
	}

	ctx, span := r.startSpan(ctx)
	unwatch := r.watchQueueDepth()

	r.log.Debug("pipeline starting", logger.Fields(
		logger.FieldWorkers, cfg.Workers,
		logger.FieldQueueDepth, workQueue.Cap(),
	))
	start := time.Now()

	var wg conc.WaitGroup
	wg.Go(func() { r.aggregate(runCtx) })
	for i := 0; i < cfg.Workers; i++ {
		wg.Go(func() { r.worker(runCtx) })
	}

	r.feed(runCtx, work)

	// Exactly one shutdown marker per worker, enqueued only after the
	// source is drained, so no item is ever skipped in favor of one.
	for i := 0; i < cfg.Workers; i++ {
		r.work.Put(workEntry[Q]{kind: workShutdown})
	}

	wg.Wait()
	unwatch()

	stats := Stats{
		Processed: r.processed,
		Workers:   cfg.Workers,
		Duration:  time.Since(start),
	}
	r.finishSpan(ctx, span, stats)

	if r.runErr != nil {
		r.log.Error("pipeline failed", logger.ErrorFields("run", r.runErr))
		return stats, r.runErr
	}
	r.log.Debug("pipeline complete", logger.Fields(
		logger.FieldProcessed, stats.Processed,
		logger.FieldDuration, stats.Duration.Milliseconds(),
	))
	return stats, nil
}

// run is the transient state of one Run invocation. Nothing here
// survives the call.
type run[Q, R any] struct {
	cfg Config
	id  string
	log *logger.Logger

	work      *queue.Bounded[workEntry[Q]]
	results   *queue.Unbounded[resultEntry[R]]
	transform TransformFunc[Q, R]
	reduce    ReduceFunc[R]

	cancel   context.CancelFunc
	failed   atomic.Bool
	failOnce sync.Once
	runErr   error

	// Owned exclusively by the aggregator until the final join.
	processed int64
	ended     int
}

// fail records the first error of the run and flips every stage into
// drain mode so the shutdown protocol can still complete.
func (r *run[Q, R]) fail(err error) {
	r.failOnce.Do(func() {
		r.runErr = err
		r.failed.Store(true)
		r.cancel()
	})
}

// feed streams the work source into the bounded queue. Put blocks when
// the queue is full; that backpressure paces the source to worker
// throughput.
func (r *run[Q, R]) feed(ctx context.Context, work Source[Q]) {
	defer work.Close()

	for {
		if ctx.Err() != nil {
			r.fail(errors.Canceled(r.cfg.Name, ctx.Err()))
			return
		}
		item, ok, err := work.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.fail(errors.Canceled(r.cfg.Name, ctx.Err()))
			} else {
				r.fail(errors.SourceFailed(r.cfg.Name, err))
			}
			return
		}
		if !ok {
			return
		}
		r.work.Put(workEntry[Q]{item: item, kind: workItem})
	}
}
