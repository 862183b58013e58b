package queue

import (
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/kbukum/conveyor/errors"
)

// Bounded is a blocking FIFO queue with a fixed capacity.
type Bounded[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	items    *linkedlistqueue.Queue
	capacity int
}

// NewBounded creates a bounded queue. Capacity is fixed for the queue's
// lifetime; values below one are rejected.
func NewBounded[T any](capacity int) (*Bounded[T], error) {
	if capacity < 1 {
		return nil, errors.InvalidCapacity(capacity)
	}
	q := &Bounded[T]{
		items:    linkedlistqueue.New(),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// MustBounded creates a bounded queue, panicking on an invalid capacity.
func MustBounded[T any](capacity int) *Bounded[T] {
	q, err := NewBounded[T](capacity)
	if err != nil {
		panic(err)
	}
	return q
}

// Put appends v, blocking while the queue is at capacity.
func (q *Bounded[T]) Put(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Size() >= q.capacity {
		q.notFull.Wait()
	}
	q.items.Enqueue(v)
	q.notEmpty.Signal()
}

// Take removes and returns the oldest value, blocking while the queue
// is empty.
func (q *Bounded[T]) Take() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Empty() {
		q.notEmpty.Wait()
	}
	v, _ := q.items.Dequeue()
	q.notFull.Signal()
	return v.(T)
}

// Len returns the current queue depth.
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Size()
}

// Cap returns the fixed capacity.
func (q *Bounded[T]) Cap() int {
	return q.capacity
}
