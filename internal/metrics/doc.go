// Package metrics provides build instrumentation for blogsmith.
//
// Components receive a Recorder through the build environment. NoopRecorder is
// the default; NewPrometheusRecorder registers real collectors on a registry,
// which HTTPHandler exposes (the serve command mounts it at /metrics):
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	builder := build.New(cfg, build.WithRecorder(rec))
package metrics
