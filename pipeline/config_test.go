package pipeline

import (
	"runtime"
	"testing"

	"github.com/kbukum/conveyor/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("idx")
	if cfg.Name != "idx" {
		t.Errorf("Name = %q, want %q", cfg.Name, "idx")
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.QueueFactor != DefaultQueueFactor {
		t.Errorf("QueueFactor = %d, want %d", cfg.QueueFactor, DefaultQueueFactor)
	}
	if cfg.TraceEvery != DefaultTraceEvery {
		t.Errorf("TraceEvery = %d, want %d", cfg.TraceEvery, DefaultTraceEvery)
	}
	if cfg.Logger == nil {
		t.Error("Logger must default to the no-op logger, not nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Name: "idx", Workers: 3}
	cfg.ApplyDefaults()

	if cfg.QueueFactor != DefaultQueueFactor {
		t.Errorf("QueueFactor = %d, want %d", cfg.QueueFactor, DefaultQueueFactor)
	}
	if cfg.TraceEvery != DefaultTraceEvery {
		t.Errorf("TraceEvery = %d, want %d", cfg.TraceEvery, DefaultTraceEvery)
	}
	if cfg.Logger == nil {
		t.Error("Logger not defaulted")
	}
	// Workers is a caller decision; a zero must fail validation rather
	// than be silently filled.
	cfg = Config{Name: "idx"}
	cfg.ApplyDefaults()
	if cfg.Workers != 0 {
		t.Errorf("ApplyDefaults must not set Workers, got %d", cfg.Workers)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig("idx")
		cfg.Workers = 2
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"single worker", func(c *Config) { c.Workers = 1 }, false},
		{"missing name", func(c *Config) { c.Name = "" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"zero queue factor", func(c *Config) { c.QueueFactor = 0 }, true},
		{"zero trace interval", func(c *Config) { c.TraceEvery = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && !errors.IsCode(err, errors.CodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_QueueCapacity(t *testing.T) {
	cfg := Config{Workers: 4, QueueFactor: 20}
	if got := cfg.queueCapacity(); got != 80 {
		t.Errorf("queueCapacity() = %d, want 80", got)
	}
}
