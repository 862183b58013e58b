package config

import (
	"github.com/kbukum/conveyor/logger"
	"github.com/kbukum/conveyor/pipeline"
	"github.com/kbukum/conveyor/validation"
)

// RunnerConfig contains the file-configurable defaults for pipeline
// runs. Projects extend it by embedding it in their own config structs.
//
//	type IndexerConfig struct {
//	    config.RunnerConfig `yaml:",inline" mapstructure:",squash"`
//	    SourceDir string `yaml:"source_dir" mapstructure:"source_dir"`
//	}
type RunnerConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Workers     int           `yaml:"workers" mapstructure:"workers" validate:"gte=1"`
	QueueFactor int           `yaml:"queue_factor" mapstructure:"queue_factor" validate:"gte=1"`
	TraceEvery  int           `yaml:"trace_every" mapstructure:"trace_every" validate:"gte=1"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the runner configuration.
// Workers is not defaulted here: pipeline.DefaultConfig picks the CPU
// count, but a file-driven config must state its parallelism.
func (c *RunnerConfig) ApplyDefaults() {
	if c.QueueFactor == 0 {
		c.QueueFactor = pipeline.DefaultQueueFactor
	}
	if c.TraceEvery == 0 {
		c.TraceEvery = pipeline.DefaultTraceEvery
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the runner configuration.
func (c *RunnerConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Pipeline converts the runner configuration into a pipeline.Config
// with a live logger built from the logging section.
func (c *RunnerConfig) Pipeline() pipeline.Config {
	return pipeline.Config{
		Name:        c.Name,
		Workers:     c.Workers,
		QueueFactor: c.QueueFactor,
		TraceEvery:  c.TraceEvery,
		Logger:      logger.New(&c.Logging, c.Name),
	}
}
