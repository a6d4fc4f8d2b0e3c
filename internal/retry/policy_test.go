package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/codedoc/internal/config"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, config.RetryBackoffExponential, p.Mode)
	require.Equal(t, 500*time.Millisecond, p.Initial)
	require.Equal(t, 5*time.Second, p.Max)
	require.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial, "initial is clamped to max")
	require.Equal(t, 2*time.Second, p.Max)
	require.Equal(t, config.RetryBackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)

	p = NewPolicy("bogus", 0, 0, -1)
	require.Equal(t, DefaultPolicy(), p)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	cases := []struct {
		name   string
		policy Policy
		want   []time.Duration
	}{
		{"fixed", NewPolicy(config.RetryBackoffFixed, 100*ms, 500*ms, 3), []time.Duration{100 * ms, 100 * ms, 100 * ms}},
		{"linear", NewPolicy(config.RetryBackoffLinear, 100*ms, 250*ms, 5), []time.Duration{100 * ms, 200 * ms, 250 * ms, 250 * ms}},
		{"exponential", NewPolicy(config.RetryBackoffExponential, 50*ms, 160*ms, 5), []time.Duration{50 * ms, 100 * ms, 160 * ms, 160 * ms}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, time.Duration(0), tc.policy.Delay(0))
			for i, want := range tc.want {
				require.Equal(t, want, tc.policy.Delay(i+1), "retry %d", i+1)
			}
		})
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 3)
	calls := 0
	err := p.Do(context.Background(), func(int) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableAndExhaustion(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)

	calls := 0
	fatal := ferrors.ConfigError("bad").Build()
	err := p.Do(context.Background(), func(int) error { calls++; return fatal })
	require.ErrorIs(t, err, fatal)
	require.Equal(t, 1, calls)

	calls = 0
	err = p.Do(context.Background(), func(int) error { calls++; return ferrors.PublishError("down").Build() })
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestDoHonorsContext(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Do(ctx, func(int) error { return errors.New("x") })
	require.ErrorIs(t, err, context.Canceled)
}
