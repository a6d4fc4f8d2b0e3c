package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var errSentinel = stderrors.New("sentinel")

func TestErrorBuilder(t *testing.T) {
	err := SafetyError("file exceeds maximum size").
		WithStage("safety-gate").
		WithContext("size", 11).
		WithContext("limit", 10).
		WithCause(errSentinel).
		Build()

	require.Equal(t, CategorySafety, err.Category())
	require.Equal(t, SeverityFatal, err.Severity())
	require.True(t, err.IsFatal())
	require.False(t, err.CanRetry())
	require.Equal(t, "safety-gate", err.Stage())
	require.ErrorIs(t, err, errSentinel)
	require.Equal(t, "[safety] safety-gate: file exceeds maximum size: sentinel", err.Error())
}

func TestErrorWithoutStage(t *testing.T) {
	err := PublishError("flush timed out").Build()
	require.Equal(t, "[publish] flush timed out", err.Error())
	require.True(t, err.CanRetry())
}

func TestAsClassifiedWalksChain(t *testing.T) {
	inner := FormatError("unknown format override").Build()
	wrapped := fmt.Errorf("convert a.slp: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	require.Same(t, inner, got)
	require.True(t, HasCategory(wrapped, CategoryFormat))
	require.False(t, HasCategory(errSentinel, CategoryFormat))
	require.Equal(t, CategoryFormat, CategoryOf(wrapped))
	require.Equal(t, CategoryInternal, CategoryOf(errSentinel))
}

func TestBuilderReuseDoesNotShareContext(t *testing.T) {
	b := ConfigError("bad value").WithContext("field", "max_lines")
	first := b.Build()
	second := b.WithContext("value", -1).Build()

	_, ok := first.Context().Get("value")
	require.False(t, ok)
	v, ok := second.Context().GetString("field")
	require.True(t, ok)
	require.Equal(t, "max_lines", v)
}

func TestClassifiedIs(t *testing.T) {
	a := EncodingError("invalid byte sequence").Build()
	b := EncodingError("invalid byte sequence").WithContext("encoding", "utf-8").Build()
	c := EncodingError("unknown encoding").Build()

	require.ErrorIs(t, a, b)
	require.NotErrorIs(t, a, c)
}

func TestErrorContextClone(t *testing.T) {
	var nilCtx ErrorContext
	require.Nil(t, nilCtx.Clone())

	orig := ErrorContext{"a": 1}
	cp := orig.Clone()
	cp.Set("b", 2)
	_, ok := orig.Get("b")
	require.False(t, ok)
}
