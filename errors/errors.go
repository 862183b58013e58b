package errors

import (
	"errors"
	"fmt"
)

// Error is the unified error type for pipeline failures.
type Error struct {
	// Code is a machine-readable error code.
	Code Code `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the Code from err, or "" if err is not a pipeline Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// --- Common Error Constructors ---

// InvalidConfig creates an Error for a configuration that failed validation.
func InvalidConfig(message string) *Error {
	return &Error{Code: CodeInvalidConfig, Message: message}
}

// InvalidCapacity creates an Error for a queue capacity below one.
func InvalidCapacity(capacity int) *Error {
	return &Error{
		Code:    CodeInvalidCapacity,
		Message: fmt.Sprintf("queue capacity must be at least 1 (got: %d)", capacity),
		Details: map[string]any{"capacity": capacity},
	}
}

// SourceFailed creates an Error for a work source that failed mid-stream.
func SourceFailed(pipeline string, cause error) *Error {
	return &Error{
		Code: CodeSourceFailed, Message: "work source failed",
		Details: map[string]any{"pipeline": pipeline},
		Cause:   cause,
	}
}

// TransformFailed creates an Error for a transform that returned an error.
func TransformFailed(pipeline string, cause error) *Error {
	return &Error{
		Code: CodeTransformFailed, Message: "transform failed",
		Details: map[string]any{"pipeline": pipeline},
		Cause:   cause,
	}
}

// TransformPanic creates an Error for a transform that panicked.
func TransformPanic(pipeline string, cause error) *Error {
	return &Error{
		Code: CodeTransformPanic, Message: "transform panicked",
		Details: map[string]any{"pipeline": pipeline},
		Cause:   cause,
	}
}

// ReduceFailed creates an Error for a reducer that returned an error.
func ReduceFailed(pipeline string, cause error) *Error {
	return &Error{
		Code: CodeReduceFailed, Message: "reduce failed",
		Details: map[string]any{"pipeline": pipeline},
		Cause:   cause,
	}
}

// ReducePanic creates an Error for a reducer that panicked.
func ReducePanic(pipeline string, cause error) *Error {
	return &Error{
		Code: CodeReducePanic, Message: "reduce panicked",
		Details: map[string]any{"pipeline": pipeline},
		Cause:   cause,
	}
}

// Canceled creates an Error for a run interrupted by context cancellation.
func Canceled(pipeline string, cause error) *Error {
	return &Error{
		Code: CodeCanceled, Message: "pipeline run canceled",
		Details: map[string]any{"pipeline": pipeline},
		Cause:   cause,
	}
}
