package pipeline

// workKind discriminates work queue entries. An explicit variant rather
// than a sentinel item value, so a legitimately zero-valued item is
// never mistaken for a shutdown signal.
type workKind uint8

const (
	workItem workKind = iota
	workShutdown
)

// workEntry carries either one input item or a shutdown marker from the
// driver to a worker.
type workEntry[Q any] struct {
	item Q
	kind workKind
}

// resultKind discriminates result queue entries.
type resultKind uint8

const (
	resultItem resultKind = iota
	resultWorkerDone
)

// resultEntry carries either one output item or a worker-done marker
// from a worker to the aggregator. Exactly one done marker is emitted
// per worker, after that worker has consumed its shutdown marker.
type resultEntry[R any] struct {
	item R
	kind resultKind
}
