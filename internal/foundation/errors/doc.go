// Package errors provides the classified error primitives used across codedoc.
//
// Key features:
//   - ErrorCategory: which pipeline concern failed (safety, encoding, format, config, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: whether repeating the operation can help
//   - ClassifiedError: structured error with category, severity, context and cause
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing messages
//
// Example usage:
//
//	err := errors.SafetyError("file exceeds maximum size").
//		WithContext("size", n).
//		WithContext("limit", limit).
//		WithCause(ErrFileTooLarge).
//		Build()
package errors
