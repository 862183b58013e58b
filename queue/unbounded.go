package queue

import (
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Unbounded is a blocking FIFO queue with no capacity limit. Put never
// blocks; Take blocks while the queue is empty.
type Unbounded[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    *linkedlistqueue.Queue
}

// NewUnbounded creates an empty unbounded queue.
func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{
		items: linkedlistqueue.New(),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Put appends v. It never blocks.
func (q *Unbounded[T]) Put(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items.Enqueue(v)
	q.notEmpty.Signal()
}

// Take removes and returns the oldest value, blocking while the queue
// is empty.
func (q *Unbounded[T]) Take() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Empty() {
		q.notEmpty.Wait()
	}
	v, _ := q.items.Dequeue()
	return v.(T)
}

// Len returns the current queue depth.
func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Size()
}
