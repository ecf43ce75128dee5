// Package errors provides classified error primitives used across mdcaption.
//
// Setup and I/O failures are reported as ClassifiedError values carrying a
// category (config, validation, parse, render, filesystem, ...), a severity
// and structured context. The CLI adapter turns them into exit codes and
// user-facing messages.
//
// Example usage:
//
//	err := errors.ConfigError("invalid caption_match_re").
//		WithContext("kind", "table").
//		WithContext("pattern", pattern).
//		Build()
package errors
