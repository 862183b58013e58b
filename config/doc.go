// Package config loads conveyor runner configuration from YAML files,
// .env files, and environment variables via viper.
//
// RunnerConfig holds the file-configurable pipeline defaults (worker
// count, queue factor, trace interval, logging) and converts to a
// pipeline.Config with Pipeline().
//
//	var cfg config.RunnerConfig
//	if err := config.Load("indexer", &cfg); err != nil { ... }
//	stats, err := pipeline.Run(ctx, cfg.Pipeline(), src, transform, reduce)
package config
