// Package metrics provides conversion metrics for codedoc.
//
// Components receive a Recorder and default to NoopRecorder, so metrics are
// opt-in and no caller needs nil checks:
//
//	p := pipeline.New(reg, pipeline.WithRecorder(metrics.NoopRecorder{}))
//
// codedoc is a short-lived CLI, so the Prometheus implementation does not
// serve a scrape endpoint. Instead the collected registry is written once at
// the end of a batch in the node_exporter textfile format:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	// ... run conversions ...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/codedoc.prom")
package metrics
