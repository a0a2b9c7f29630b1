// Package metrics provides the observability hooks of a split run.
//
// Components receive a Recorder through their options. NoopRecorder is the
// default, so callers never check for nil:
//
//	em := emitter.New(emitter.Options{Recorder: metrics.NoopRecorder{}})
//
// The CLI swaps in a PrometheusRecorder backed by its own registry. One-shot
// runs export the registry with WriteTextfile (node_exporter textfile
// collector format); the watch command can also serve it over HTTP.
package metrics
