// Package observability provides OpenTelemetry bootstrap and the metric
// instruments recorded by conveyor pipelines.
//
// InitTracer and InitMeter configure global OTLP HTTP providers for
// applications that want runs exported; the pipeline itself only talks
// to the otel API, so with no provider installed every span and counter
// is a no-op.
package observability
