package pipeline

import (
	"context"
	"iter"
)

// Source provides pull-based sequential access to a stream of work
// items. A pipeline consumes its source exactly once, front to back,
// lazily; the source may be practically unbounded, in which case the
// run never returns.
type Source[Q any] interface {
	// Next returns the next item. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (Q, bool, error)
	// Close releases any resources held by the source.
	Close() error
}

// FromSlice creates a source from a slice of items.
func FromSlice[Q any](items []Q) Source[Q] {
	return &sliceSource[Q]{items: items}
}

// FromFunc creates a source from a pull function.
func FromFunc[Q any](fn func(ctx context.Context) (Q, bool, error)) Source[Q] {
	return &funcSource[Q]{fn: fn}
}

// FromSeq creates a source from an iter.Seq.
func FromSeq[Q any](seq iter.Seq[Q]) Source[Q] {
	next, stop := iter.Pull(seq)
	return &seqSource[Q]{next: next, stop: stop}
}

// FromChannel creates a source that drains a channel until it is closed.
func FromChannel[Q any](ch <-chan Q) Source[Q] {
	return &channelSource[Q]{ch: ch}
}

// --- Internal sources ---

type sliceSource[Q any] struct {
	items []Q
	index int
}

func (s *sliceSource[Q]) Next(_ context.Context) (Q, bool, error) {
	if s.index >= len(s.items) {
		var zero Q
		return zero, false, nil
	}
	item := s.items[s.index]
	s.index++
	return item, true, nil
}

func (s *sliceSource[Q]) Close() error { return nil }

type funcSource[Q any] struct {
	fn func(ctx context.Context) (Q, bool, error)
}

func (s *funcSource[Q]) Next(ctx context.Context) (Q, bool, error) {
	return s.fn(ctx)
}

func (s *funcSource[Q]) Close() error { return nil }

type seqSource[Q any] struct {
	next func() (Q, bool)
	stop func()
}

func (s *seqSource[Q]) Next(_ context.Context) (Q, bool, error) {
	item, ok := s.next()
	return item, ok, nil
}

func (s *seqSource[Q]) Close() error {
	s.stop()
	return nil
}

type channelSource[Q any] struct {
	ch <-chan Q
}

func (s *channelSource[Q]) Next(ctx context.Context) (Q, bool, error) {
	select {
	case item, open := <-s.ch:
		if !open {
			var zero Q
			return zero, false, nil
		}
		return item, true, nil
	case <-ctx.Done():
		var zero Q
		return zero, false, ctx.Err()
	}
}

func (s *channelSource[Q]) Close() error { return nil }
