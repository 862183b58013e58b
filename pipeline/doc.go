// Package pipeline runs a computation in parallel over a lazy stream of
// work items, and serializes all result aggregation through a single
// goroutine.
//
// Run fans a bounded work stream out across a fixed pool of workers,
// each applying a caller-supplied transform, and fans the results back
// into one aggregator that calls the caller-supplied reducer strictly
// one invocation at a time. Because only the aggregator ever calls the
// reducer, it may freely mutate caller-owned state with no locking:
//
//	results := make(map[int]int)
//
//	stats, err := pipeline.Run(ctx, pipeline.DefaultConfig("squares"),
//	    pipeline.FromSeq(seqRange(0, 100_000)),
//	    func(_ context.Context, n int) ([2]int, error) {
//	        return [2]int{n, n * 5}, nil
//	    },
//	    func(_ context.Context, r [2]int) error {
//	        results[r[0]] = r[1]
//	        return nil
//	    })
//
// # Protocol
//
// The driver feeds items into a bounded work queue (capacity
// Workers*QueueFactor), blocking under backpressure, then enqueues
// exactly one shutdown marker per worker. Each worker pushes one done
// marker to the unbounded result queue after consuming its shutdown
// marker, and the aggregator exits once it has counted a done marker
// from every worker. Run returns only after every goroutine it spawned
// has been joined.
//
// Result arrival order is not input order. A reducer that needs
// ordering must carry an ordering key in the result type.
//
// There is no timeout: a transform or reducer that never returns stalls
// the run indefinitely. Cancelling the context stops sourcing new work,
// drains, joins, and reports RUN_CANCELED.
package pipeline
