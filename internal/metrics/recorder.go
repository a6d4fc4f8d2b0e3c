package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// OutcomeLabel is the final status of one file conversion.
type OutcomeLabel string

const (
	OutcomeConverted OutcomeLabel = "converted"
	OutcomeInvalid   OutcomeLabel = "invalid" // converted, structured data failed validation
	OutcomeFailed    OutcomeLabel = "failed"
	OutcomeSkipped   OutcomeLabel = "skipped" // unchanged since the last incremental run
)

// Recorder defines observability hooks for conversion and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncConversion(category string, outcome OutcomeLabel)
	ObserveInputBytes(n int)
	IncTruncation(reason string)
	ObserveBatchDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncConversion(string, OutcomeLabel)         {}
func (NoopRecorder) ObserveInputBytes(int)                      {}
func (NoopRecorder) IncTruncation(string)                       {}
func (NoopRecorder) ObserveBatchDuration(time.Duration)         {}
