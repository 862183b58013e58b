// Package validation provides struct tag validation for conveyor
// configuration types, backed by the go-playground validator.
//
//	type Config struct {
//	    Workers int `validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
// Failures are reported as coded INVALID_CONFIG errors with per-field
// details.
package validation
