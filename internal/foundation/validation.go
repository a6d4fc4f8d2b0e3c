// Package foundation holds small building blocks shared by the configuration
// and pipeline layers.
package foundation

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// Validator represents a validation function.
type Validator[T any] func(T) ValidationResult

// ValidationResult contains the result of a validation operation. The zero
// value is valid.
type ValidationResult struct {
	Errors []FieldError
}

// FieldError represents a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface.
func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// Valid creates a successful validation result.
func Valid() ValidationResult { return ValidationResult{} }

// Invalid creates a failed validation result with errors.
func Invalid(errs ...FieldError) ValidationResult {
	return ValidationResult{Errors: errs}
}

// NewFieldError creates a field error.
func NewFieldError(field, code, message string, value any) FieldError {
	return FieldError{Field: field, Code: code, Message: message, Value: value}
}

// OK reports whether no errors were collected.
func (vr ValidationResult) OK() bool { return len(vr.Errors) == 0 }

// Combine merges two validation results.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if vr.OK() && other.OK() {
		return Valid()
	}
	all := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	all = append(all, vr.Errors...)
	all = append(all, other.Errors...)
	return Invalid(all...)
}

// ToError converts an invalid result into a configuration error listing every
// failure. A valid result yields nil.
func (vr ValidationResult) ToError() error {
	if vr.OK() {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, fe := range vr.Errors {
		messages = append(messages, fe.Error())
	}
	return errors.ConfigError("invalid configuration: "+strings.Join(messages, "; ")).
		WithContext("problems", len(vr.Errors)).
		Build()
}

// ValidatorChain runs validators in order and collects every failure.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain.
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add appends a validator to the chain.
func (vc *ValidatorChain[T]) Add(v Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, v)
	return vc
}

// Validate runs all validators in the chain.
func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	result := Valid()
	for _, v := range vc.validators {
		result = result.Combine(v(value))
	}
	return result
}

// OneOf validates that a value is in a set of allowed values.
func OneOf[T comparable](field string, allowed []T) Validator[T] {
	set := make(map[T]bool, len(allowed))
	for _, item := range allowed {
		set[item] = true
	}
	return func(value T) ValidationResult {
		if !set[value] {
			return Invalid(NewFieldError(field, "one_of", fmt.Sprintf("must be one of %v", allowed), value))
		}
		return Valid()
	}
}

// InRange validates that a number lies within [lo, hi].
func InRange[T ~int | ~int64](field string, lo, hi T) Validator[T] {
	return func(value T) ValidationResult {
		if value < lo || value > hi {
			return Invalid(NewFieldError(field, "range", fmt.Sprintf("must be between %v and %v", lo, hi), value))
		}
		return Valid()
	}
}

// NonNegative validates that a number is zero or greater.
func NonNegative[T ~int | ~int64](field string) Validator[T] {
	return func(value T) ValidationResult {
		if value < 0 {
			return Invalid(NewFieldError(field, "non_negative", "must not be negative", value))
		}
		return Valid()
	}
}
