package metrics

import (
	"testing"
	"time"
)

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObservePhaseDuration("read", time.Millisecond)
	r.IncPhaseResult("read", ResultFatal)
	r.IncBuildOutcome(BuildOutcomeFailed)
	r.IncDateAnnotation(DateSiteRole)
}
