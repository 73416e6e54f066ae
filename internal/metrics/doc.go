// Package metrics provides the observability hooks for the detection,
// installation and script composition pipeline.
//
// Components receive a Recorder through a WithRecorder setter and default to
// NoopRecorder, so no call site needs a nil check:
//
//	svc := build.NewService(opts, registry).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// A build is a one-shot process, so instead of serving an HTTP endpoint the
// CLI writes the registry to a textfile (WriteTextfile) when ORYX_METRICS_FILE
// is configured.
package metrics
