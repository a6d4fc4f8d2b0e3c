package config

import "git.home.luguber.info/inful/codedoc/internal/foundation/normalization"

// RetryBackoffMode enumerates supported backoff strategies for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffNormalizer = normalization.NewNormalizer(map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
}, "")

// NormalizeRetryBackoff converts user input (case-insensitive) into a typed
// mode, returning "" for unknown values.
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	return retryBackoffNormalizer.Normalize(raw)
}
