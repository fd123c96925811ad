package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogsmith"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	phaseDuration   *prom.HistogramVec
	phaseResults    *prom.CounterVec
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	documents       prom.Counter
	pages           prom.Counter
	warnings        *prom.CounterVec
	dateAnnotations *prom.CounterVec
	archives        *prom.CounterVec
}

// NewPrometheusRecorder constructs Prometheus metrics and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual build phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		phaseResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "phase_results_total",
			Help:      "Phase result counts by outcome",
		}, []string{"phase", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documents: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_read_total",
			Help:      "Source documents read",
		}),
		pages: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "HTML pages written",
		}),
		warnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_warnings_total",
			Help:      "Build warnings by kind",
		}, []string{"kind"}),
		dateAnnotations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "date_annotations_total",
			Help:      "Rendered date annotations by call site",
		}, []string{"site"}),
		archives: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "example_archives_total",
			Help:      "Example archives written by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.phaseResults, pr.buildDuration, pr.buildOutcome,
		pr.documents, pr.pages, pr.warnings, pr.dateAnnotations, pr.archives)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPhaseResult(phase string, result ResultLabel) {
	if p == nil {
		return
	}
	p.phaseResults.WithLabelValues(phase, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddDocuments(n int) {
	if p == nil {
		return
	}
	p.documents.Add(float64(n))
}

func (p *PrometheusRecorder) AddPages(n int) {
	if p == nil {
		return
	}
	p.pages.Add(float64(n))
}

func (p *PrometheusRecorder) IncWarnings(kind string) {
	if p == nil {
		return
	}
	p.warnings.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncDateAnnotation(site DateSite) {
	if p == nil {
		return
	}
	p.dateAnnotations.WithLabelValues(string(site)).Inc()
}

func (p *PrometheusRecorder) IncArchive(success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.archives.WithLabelValues(res).Inc()
}
