package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "codedoc"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	conversions   *prom.CounterVec
	inputBytes    prom.Histogram
	truncations   *prom.CounterVec
	batchDuration prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg,
// or on a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual pipeline stages",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"stage"})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.conversions = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "conversions_total",
		Help:      "File conversions by format category and outcome",
	}, []string{"category", "outcome"})
	pr.inputBytes = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "input_bytes",
		Help:      "Size of converted input files",
		Buckets:   prom.ExponentialBuckets(256, 4, 8),
	})
	pr.truncations = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "truncations_total",
		Help:      "Records whose presented content was truncated",
	}, []string{"reason"})
	pr.batchDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Total duration of a convert run",
		Buckets:   prom.DefBuckets,
	})
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.conversions, pr.inputBytes, pr.truncations, pr.batchDuration)
	return pr
}

// Registry exposes the underlying registry for gathering.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// WriteTextfile writes all gathered metrics to path in the text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncConversion(category string, outcome OutcomeLabel) {
	if p == nil || p.conversions == nil {
		return
	}
	p.conversions.WithLabelValues(category, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveInputBytes(n int) {
	if p == nil || p.inputBytes == nil {
		return
	}
	p.inputBytes.Observe(float64(n))
}

func (p *PrometheusRecorder) IncTruncation(reason string) {
	if p == nil || p.truncations == nil {
		return
	}
	p.truncations.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) ObserveBatchDuration(d time.Duration) {
	if p == nil || p.batchDuration == nil {
		return
	}
	p.batchDuration.Observe(d.Seconds())
}
