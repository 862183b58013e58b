package pipeline

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/panics"

	"github.com/kbukum/conveyor/errors"
	"github.com/kbukum/conveyor/logger"
)

// aggregate drains the result queue on a single goroutine, invoking the
// reducer once per result. It exits exactly when every worker's done
// marker has been counted; that is the sole termination condition.
func (r *run[Q, R]) aggregate(ctx context.Context) {
	log := r.log.WithComponent("aggregator")

	for r.ended < r.cfg.Workers {
		entry := r.results.Take()
		if entry.kind == resultWorkerDone {
			r.ended++
			continue
		}
		if r.failed.Load() {
			// Drain mode: keep counting done markers, drop results.
			continue
		}

		var err error
		recovered := panics.Try(func() {
			err = r.reduce(ctx, entry.item)
		})
		switch {
		case recovered != nil:
			r.fail(errors.ReducePanic(r.cfg.Name, recovered.AsError()))
			continue
		case err != nil:
			r.fail(errors.ReduceFailed(r.cfg.Name, err))
			continue
		}

		r.processed++
		if r.processed%int64(r.cfg.TraceEvery) == 0 {
			log.Debug(
				fmt.Sprintf("%s pipeline has processed %d work items.", r.cfg.Name, r.processed),
				logger.Fields(logger.FieldQueueDepth, r.work.Len()),
			)
		}
	}
}
