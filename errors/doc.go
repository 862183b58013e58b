// Package errors provides coded error types for conveyor pipelines.
// Every failure surfaced by a pipeline run carries a machine-readable
// code so callers can distinguish configuration mistakes from runtime
// faults without string matching.
package errors
