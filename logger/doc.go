// Package logger provides structured logging for conveyor pipelines
// using zerolog.
//
// Pipelines receive a *Logger as an injected diagnostic sink. The
// default is Nop(), which discards everything, so the concurrency core
// is testable without a logging subsystem.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "console"
//
// # Usage
//
//	log := logger.NewDefault("conveyor").WithComponent("aggregator")
//	log.Debug("run complete", logger.Fields(logger.FieldProcessed, 100000))
package logger
