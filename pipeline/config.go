package pipeline

import (
	"runtime"
	"time"

	"github.com/kbukum/conveyor/logger"
	"github.com/kbukum/conveyor/observability"
	"github.com/kbukum/conveyor/validation"
)

// Default tuning values.
const (
	// DefaultQueueFactor sizes the bounded work queue at Workers*20, a
	// backpressure bound that smooths bursty production without
	// unbounded memory growth.
	DefaultQueueFactor = 20
	// DefaultTraceEvery emits one diagnostic line per 10000 reduced items.
	DefaultTraceEvery = 10000
)

// Config configures one pipeline run.
type Config struct {
	// Name labels the run in logs and spans. No semantic effect.
	Name string `mapstructure:"name" validate:"required"`
	// Workers is the fixed worker pool size. Must be at least 1; there
	// is no dynamic scaling.
	Workers int `mapstructure:"workers" validate:"gte=1"`
	// QueueFactor scales the work queue: capacity = Workers * QueueFactor.
	QueueFactor int `mapstructure:"queue_factor" validate:"gte=1"`
	// TraceEvery is the diagnostic trace interval in reduced items.
	// Tracing costs nothing when Logger is the no-op default.
	TraceEvery int `mapstructure:"trace_every" validate:"gte=1"`
	// Logger receives diagnostic traces. Defaults to logger.Nop().
	Logger *logger.Logger `mapstructure:"-" validate:"-"`
	// Metrics receives run metrics. Nil records nothing.
	Metrics *observability.PipelineMetrics `mapstructure:"-" validate:"-"`
}

// DefaultConfig returns a run configuration with one worker per CPU.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		Workers:     runtime.NumCPU(),
		QueueFactor: DefaultQueueFactor,
		TraceEvery:  DefaultTraceEvery,
		Logger:      logger.Nop(),
	}
}

// ApplyDefaults fills unset tuning fields. Workers is deliberately not
// defaulted: a zero worker count is a caller error, rejected by
// Validate before any goroutine is spawned.
func (c *Config) ApplyDefaults() {
	if c.QueueFactor == 0 {
		c.QueueFactor = DefaultQueueFactor
	}
	if c.TraceEvery == 0 {
		c.TraceEvery = DefaultTraceEvery
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
}

// Validate validates the run configuration.
func (c Config) Validate() error {
	return validation.Validate(c)
}

// queueCapacity returns the bounded work queue capacity.
func (c Config) queueCapacity() int {
	return c.Workers * c.QueueFactor
}

// Stats summarizes a completed run.
type Stats struct {
	// Processed is the number of results handed to the reducer.
	Processed int64
	// Workers is the pool size the run used.
	Workers int
	// Duration is the wall time from spawn to final join.
	Duration time.Duration
}
