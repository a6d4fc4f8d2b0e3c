package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategorySafety represents content-safety rejections (size ceiling).
	CategorySafety   ErrorCategory = "safety"
	CategoryEncoding ErrorCategory = "encoding"
	CategoryFormat   ErrorCategory = "format"

	// CategoryFileSystem represents I/O failures around the pipeline.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryTemplate   ErrorCategory = "template"
	CategoryState      ErrorCategory = "state"
	CategoryPublish    ErrorCategory = "publish"

	// CategoryRuntime represents runtime and infrastructure errors.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops processing of the current file
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// RetryStrategy indicates how an error should be handled in retry scenarios.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"   // Permanent failure
	RetryBackoff    RetryStrategy = "backoff" // Retry per the caller's backoff policy
	RetryUserAction RetryStrategy = "user"    // Input or configuration must change first
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Clone returns a copy safe to modify.
func (c ErrorContext) Clone() ErrorContext {
	return maps.Clone(c)
}
