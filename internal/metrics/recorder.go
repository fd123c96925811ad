package metrics

import "time"

// ResultLabel enumerates phase result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeWarning  BuildOutcomeLabel = "warning"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// DateSite identifies where a date annotation was rendered.
type DateSite string

const (
	DateSitePage DateSite = "page"
	DateSiteTOC  DateSite = "toc"
	DateSiteRole DateSite = "role"
)

// Recorder defines observability hooks for build and phase metrics.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	IncPhaseResult(phase string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	AddDocuments(n int)
	AddPages(n int)
	IncWarnings(kind string)
	IncDateAnnotation(site DateSite)
	IncArchive(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) IncPhaseResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) AddDocuments(int)                           {}
func (NoopRecorder) AddPages(int)                               {}
func (NoopRecorder) IncWarnings(string)                         {}
func (NoopRecorder) IncDateAnnotation(DateSite)                 {}
func (NoopRecorder) IncArchive(bool)                            {}
