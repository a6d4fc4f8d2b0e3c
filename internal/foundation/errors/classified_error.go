package errors

import (
	stderrors "errors"
	"strings"
)

// ClassifiedError is a categorized error carrying the pipeline stage and
// structured context. Build one with the ErrorBuilder helpers.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

// Error renders "[category] stage: message: cause", omitting empty parts.
func (e *ClassifiedError) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(e.category))
	sb.WriteString("] ")
	if stage := e.Stage(); stage != "" {
		sb.WriteString(stage)
		sb.WriteString(": ")
	}
	sb.WriteString(e.message)
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }

func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }

func (e *ClassifiedError) Message() string { return e.message }

func (e *ClassifiedError) Cause() error { return e.cause }

// Context returns the structured context. Callers must not modify it.
func (e *ClassifiedError) Context() ErrorContext { return e.context }

// Stage returns the pipeline stage recorded in the error context, if any.
func (e *ClassifiedError) Stage() string {
	stage, _ := e.context.GetString("stage")
	return stage
}

// Is matches another ClassifiedError with the same category and message, so
// errors built from the same template compare equal regardless of context.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// CanRetry reports whether retrying without user intervention may succeed.
func (e *ClassifiedError) CanRetry() bool {
	return e.retry != RetryNever && e.retry != RetryUserAction
}

// IsFatal reports whether the error stops processing of the current file.
func (e *ClassifiedError) IsFatal() bool {
	return e.severity == SeverityFatal
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory checks if the error chain carries a classified error of the given category.
func HasCategory(err error, category ErrorCategory) bool {
	if classified, ok := AsClassified(err); ok {
		return classified.category == category
	}
	return false
}

// CategoryOf extracts the category from an error. Unclassified errors are
// internal.
func CategoryOf(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.category
	}
	return CategoryInternal
}
