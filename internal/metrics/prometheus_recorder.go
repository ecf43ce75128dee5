package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	documentDuration  prom.Histogram
	processorDuration *prom.HistogramVec
	documentOutcomes  *prom.CounterVec
	captions          *prom.CounterVec
	recovered         *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		documentDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mdcaption",
			Name:      "document_duration_seconds",
			Help:      "Time to convert one document",
			Buckets:   prom.ExponentialBuckets(0.0005, 2, 12),
		}),
		processorDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "mdcaption",
			Name:      "processor_duration_seconds",
			Help:      "Time spent in individual tree and post processors",
			Buckets:   prom.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"processor"}),
		documentOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdcaption",
			Name:      "documents_total",
			Help:      "Documents by outcome",
		}, []string{"outcome"}),
		captions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdcaption",
			Name:      "captions_total",
			Help:      "Captions built by content kind",
		}, []string{"kind"}),
		recovered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdcaption",
			Name:      "caption_candidates_skipped_total",
			Help:      "Caption candidates left untouched, by kind and reason",
		}, []string{"kind", "reason"}),
	}
	reg.MustRegister(pr.documentDuration, pr.processorDuration, pr.documentOutcomes, pr.captions, pr.recovered)
	return pr
}

func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.documentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveProcessorDuration(processor string, d time.Duration) {
	if p == nil {
		return
	}
	p.processorDuration.WithLabelValues(processor).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDocumentOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.documentOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) Captioned(kind string, _ int) {
	if p == nil {
		return
	}
	p.captions.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) Recovered(kind, reason string) {
	if p == nil {
		return
	}
	p.recovered.WithLabelValues(kind, reason).Inc()
}
