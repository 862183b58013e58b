// Package queue provides the two blocking FIFO queues that carry a
// pipeline's traffic.
//
// Bounded is the work queue: Put blocks while the queue is at capacity,
// which is the backpressure mechanism pacing a fast producer to worker
// throughput. Unbounded is the result queue: Put never blocks, so a
// worker can never stall writing results while the driver is stalled
// writing work. That asymmetry keeps the shutdown protocol
// deadlock-free.
//
// Both queues are internally synchronized and safe for concurrent use
// from any number of producers and consumers.
package queue
