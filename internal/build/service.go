package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/config"
)

// BuildService is the canonical interface for executing site builds.
type BuildService interface {
	// Run executes a complete build: discover → read → resolve → render → finish.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// OutputDir overrides the configured output directory when set.
	OutputDir string

	// Options provides optional build behavior modifiers.
	Options BuildOptions
}

// BuildOptions provides optional configuration for build behavior.
type BuildOptions struct {
	// Clean removes the output directory before writing.
	Clean bool
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	// Status indicates overall build outcome.
	Status BuildStatus

	// BuildID identifies this run in logs.
	BuildID string

	// OutputPath is the final output directory.
	OutputPath string

	// Documents is the count of source documents read.
	Documents int

	// Pages is the count of HTML pages written.
	Pages int

	// Warnings is the count of warnings raised.
	Warnings int

	// Duration is the total build execution time.
	Duration time.Duration

	// StartTime is when the build started.
	StartTime time.Time

	// EndTime is when the build completed.
	EndTime time.Time
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusSuccess indicates the build completed without warnings.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusWarnings indicates the build completed with warnings.
	BuildStatusWarnings BuildStatus = "warnings"

	// BuildStatusFailed indicates the build encountered an error.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusCancelled indicates the build was cancelled.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build produced output.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusWarnings
}
