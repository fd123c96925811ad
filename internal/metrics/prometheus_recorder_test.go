package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObservePhaseDuration("read", 150*time.Millisecond)
	pr.IncPhaseResult("read", ResultSuccess)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.AddDocuments(3)
	pr.AddPages(5)
	pr.IncWarnings("unknown_role")
	pr.IncDateAnnotation(DateSiteTOC)
	pr.IncDateAnnotation(DateSiteTOC)
	pr.IncArchive(true)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	assert.InDelta(t, 2, counterValue(t, reg, "blogsmith_date_annotations_total", "site", "toc"), 0.001)
	assert.InDelta(t, 3, counterValue(t, reg, "blogsmith_documents_read_total", "", ""), 0.001)
	assert.InDelta(t, 1, counterValue(t, reg, "blogsmith_example_archives_total", "result", "success"), 0.001)
}

func counterValue(t *testing.T, reg *prom.Registry, name, label, value string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label == "" {
				return m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{%s=%q} not found", name, label, value)
	return 0
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncDateAnnotation(DateSitePage)
		pr.ObserveBuildDuration(time.Second)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(BuildOutcomeWarning)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `blogsmith_build_outcomes_total{outcome="warning"} 1`)
}
