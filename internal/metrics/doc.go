// Package metrics records rendering and captioning metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs a nil check:
//
//	recorder := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Metrics.Enabled {
//	    recorder = metrics.NewPrometheusRecorder(registry)
//	}
//
// A Recorder also satisfies the caption engine's observer interface, which
// is how caption counts and skipped candidates reach Prometheus.
package metrics
