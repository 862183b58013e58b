package pipeline

import (
	"context"

	"github.com/sourcegraph/conc/panics"

	"github.com/kbukum/conveyor/errors"
)

// worker repeatedly takes one entry from the work queue, transforms it,
// and pushes the result. It terminates on its shutdown marker.
func (r *run[Q, R]) worker(ctx context.Context) {
	// The done marker must reach the aggregator on every exit path,
	// or its termination condition can never be met.
	defer r.results.Put(resultEntry[R]{kind: resultWorkerDone})

	for {
		entry := r.work.Take()
		if entry.kind == workShutdown {
			return
		}
		if r.failed.Load() {
			// Drain mode: the run is already failing. Consume and drop
			// remaining items so the driver's puts never wedge.
			continue
		}

		var (
			out R
			err error
		)
		recovered := panics.Try(func() {
			out, err = r.transform(ctx, entry.item)
		})
		switch {
		case recovered != nil:
			r.fail(errors.TransformPanic(r.cfg.Name, recovered.AsError()))
		case err != nil:
			r.fail(errors.TransformFailed(r.cfg.Name, err))
		default:
			r.results.Put(resultEntry[R]{item: out, kind: resultItem})
		}
	}
}
