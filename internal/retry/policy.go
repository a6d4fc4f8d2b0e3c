// Package retry computes backoff delays and runs retryable operations.
package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/codedoc/internal/config"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       config.RetryBackoffMode // fixed|linear|exponential
	Initial    time.Duration           // base delay
	Max        time.Duration           // cap for growth
	MaxRetries int                     // retries after the first failure
}

// DefaultPolicy returns the default policy (exponential, 500ms initial, 5s cap, 2 retries).
func DefaultPolicy() Policy {
	return Policy{
		Mode:       config.RetryBackoffExponential,
		Initial:    config.DefaultRetryInitial,
		Max:        config.DefaultRetryMax,
		MaxRetries: config.DefaultMaxRetries,
	}
}

// NewPolicy builds a policy from raw fields; zero or invalid values fall back to defaults.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDelay time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	if m := config.NormalizeRetryBackoff(string(mode)); m != "" {
		p.Mode = m
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// FromConfig builds a policy from the publish retry section.
func FromConfig(rc config.RetryConfig) Policy {
	return NewPolicy(rc.Backoff, rc.Initial, rc.Max, rc.Retries())
}

// Delay returns the backoff delay for the given retry number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max || d <= 0 {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// Do runs fn until it succeeds, returns a non-retryable error, the retries
// are used up or ctx is done. Errors are retryable when they are classified
// as such; unclassified errors are retried.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(p.Delay(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w (last error: %w)", ctx.Err(), err)
			case <-timer.C:
			}
		}
		err = fn(attempt)
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !retryable(err) {
			return err
		}
	}
}

func retryable(err error) bool {
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce.CanRetry()
	}
	return true
}
