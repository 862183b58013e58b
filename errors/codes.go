package errors

// Code represents a machine-readable error code.
type Code string

// Configuration errors. All are detected before any goroutine is spawned.
const (
	// CodeInvalidConfig indicates the pipeline configuration failed validation.
	CodeInvalidConfig Code = "INVALID_CONFIG"
	// CodeInvalidCapacity indicates a queue was constructed with a capacity below one.
	CodeInvalidCapacity Code = "QUEUE_INVALID_CAPACITY"
)

// Runtime errors. The first one recorded aborts the run; the pipeline still
// drains and joins every goroutine before reporting it.
const (
	// CodeSourceFailed indicates the work source returned an error mid-stream.
	CodeSourceFailed Code = "SOURCE_FAILED"
	// CodeTransformFailed indicates a transform returned a non-nil error.
	CodeTransformFailed Code = "TRANSFORM_FAILED"
	// CodeTransformPanic indicates a transform panicked inside a worker.
	CodeTransformPanic Code = "TRANSFORM_PANIC"
	// CodeReduceFailed indicates the reducer returned a non-nil error.
	CodeReduceFailed Code = "REDUCE_FAILED"
	// CodeReducePanic indicates the reducer panicked inside the aggregator.
	CodeReducePanic Code = "REDUCE_PANIC"
	// CodeCanceled indicates the caller's context was canceled mid-run.
	CodeCanceled Code = "RUN_CANCELED"
)

var configCodes = map[Code]bool{
	CodeInvalidConfig:   true,
	CodeInvalidCapacity: true,
}

// IsConfigCode reports whether the code describes a configuration error,
// i.e. one rejected before the pipeline started running.
func IsConfigCode(code Code) bool {
	return configCodes[code]
}
