package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer provides type-safe string-to-enum normalization with error handling.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
	validKeys    []string // Cached for error messages
	clean        Func
}

// Func allows custom normalization behavior.
type Func func(string) string

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// Keys are trimmed and lowercased, as are inputs.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	return WithCustomNormalizer(values, defaultValue, defaultNormalization)
}

// WithCustomNormalizer creates a normalizer with custom string normalization.
func WithCustomNormalizer[T comparable](values map[string]T, defaultValue T, normalizer Func) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		normalizedKey := normalizer(k)
		normalized[normalizedKey] = v
		validKeys = append(validKeys, normalizedKey)
	}

	sort.Strings(validKeys)

	return &Normalizer[T]{
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
		clean:        normalizer,
	}
}

// Normalize attempts to convert a string to the enum type.
// Returns the default value if the string is not recognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, exists := n.validValues[n.clean(raw)]; exists {
		return value
	}
	return n.defaultValue
}

// NormalizeWithError attempts to convert a string to the enum type.
// Empty input yields the default value; unrecognized input is an error.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	cleaned := n.clean(raw)
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if value, exists := n.validValues[cleaned]; exists {
		return value, nil
	}

	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// ValidKeys returns all valid normalized keys.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

// Key normalizes a file extension or format key: trimmed, lowercased, without
// leading dots. ".JSON " and "json" both become "json".
func Key(s string) string {
	return strings.TrimLeft(defaultNormalization(s), ".")
}

func defaultNormalization(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
