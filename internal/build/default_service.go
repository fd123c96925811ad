package build

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
	"git.home.luguber.info/inful/blogsmith/internal/theme"
)

// Phase names used in logs and metrics.
const (
	PhaseDiscover     = "discover"
	PhaseRead         = "read"
	PhaseEnvUpdated   = "env-updated"
	PhaseResolve      = "resolve"
	PhaseCollectPages = "collect-pages"
	PhaseRender       = "render"
	PhaseFinish       = "finish"
)

// DefaultBuildService is the standard implementation of BuildService.
// It orchestrates the full pipeline: discover → read → resolve → render → finish.
type DefaultBuildService struct {
	registry *plugin.Registry
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewBuildService creates a DefaultBuildService without plugins.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		registry: plugin.NewRegistry(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithPlugins sets the plugins set up for every build, in registry order.
func (s *DefaultBuildService) WithPlugins(registry *plugin.Registry) *DefaultBuildService {
	if registry != nil {
		s.registry = registry
	}
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(recorder metrics.Recorder) *DefaultBuildService {
	if recorder != nil {
		s.recorder = recorder
	}
	return s
}

// WithLogger sets the base logger; each build derives one carrying its ID.
func (s *DefaultBuildService) WithLogger(logger *slog.Logger) *DefaultBuildService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	buildID := uuid.NewString()
	result := &BuildResult{StartTime: startTime, BuildID: buildID}

	finish := func(status BuildStatus, err error) (*BuildResult, error) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		s.recorder.ObserveBuildDuration(result.Duration)
		s.recorder.IncBuildOutcome(outcomeLabel(status))
		return result, err
	}

	if req.Config == nil {
		return finish(BuildStatusFailed, errors.ConfigError("config required").Build())
	}

	logger := s.logger.With(logfields.BuildID(buildID))
	env := plugin.NewEnv(req.Config, logger, s.recorder)
	env.BuildID = buildID
	if req.OutputDir != "" {
		env.OutputDir = req.OutputDir
	}
	result.OutputPath = env.OutputDir

	h := newHooks()
	if err := h.setup(append([]plugin.Plugin{corePlugin{}}, s.registry.List()...)); err != nil {
		return finish(BuildStatusFailed, err)
	}
	env.SetDirectiveLookup(h.directive)

	th, err := theme.Load(req.Config.TemplatesDir())
	if err != nil {
		return finish(BuildStatusFailed, err)
	}

	b := &builder{
		cfg:   req.Config,
		env:   env,
		hooks: h,
		md:    newMarkdown(req.Config, h),
		theme: th,
	}

	logger.Info("Starting build",
		logfields.Path(req.Config.SourceDir()),
		slog.String("output", env.OutputDir),
		slog.String("layout", th.Source()),
		logfields.Count(s.registry.Count()))

	buildErr := b.run(ctx, s.recorder, req.Options)
	if err := b.buildFinished(buildErr); err != nil && buildErr == nil {
		buildErr = err
	}

	result.Documents = len(env.Documents())
	result.Warnings = env.Warnings()
	result.Pages = b.pagesWritten

	switch {
	case buildErr != nil && ctx.Err() != nil:
		logger.Warn("Build cancelled", logfields.Error(buildErr))
		return finish(BuildStatusCancelled, buildErr)
	case buildErr != nil:
		logger.Error("Build failed", logfields.Error(buildErr))
		return finish(BuildStatusFailed, buildErr)
	}

	status := BuildStatusSuccess
	if result.Warnings > 0 {
		status = BuildStatusWarnings
	}
	res, _ := finish(status, nil)
	logger.Info("Build complete",
		slog.String("status", string(status)),
		slog.Int("documents", res.Documents),
		slog.Int("pages", res.Pages),
		slog.Int("warnings", res.Warnings),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

// run executes the phases in order and stops at the first error.
func (b *builder) run(ctx context.Context, rec metrics.Recorder, opts BuildOptions) error {
	var files []sourceFile
	var pages []*plugin.Page

	phases := []struct {
		name string
		fn   func() error
	}{
		{PhaseDiscover, func() error {
			var err error
			files, err = discover(b.cfg)
			return err
		}},
		{PhaseRead, func() error {
			for _, f := range files {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := b.readDocument(f); err != nil {
					return err
				}
			}
			rec.AddDocuments(len(files))
			return nil
		}},
		{PhaseEnvUpdated, func() error {
			for _, h := range b.hooks.envUpdated {
				if err := h.fn(b.env); err != nil {
					return pluginFailure(h.plugin, PhaseEnvUpdated, err)
				}
			}
			return nil
		}},
		{PhaseResolve, func() error {
			for _, doc := range b.env.Documents() {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := b.resolveDocument(doc); err != nil {
					return err
				}
			}
			return nil
		}},
		{PhaseCollectPages, func() error {
			var err error
			pages, err = b.collectPages()
			return err
		}},
		{PhaseRender, func() error {
			return b.renderAll(ctx, pages, opts)
		}},
		{PhaseFinish, func() error {
			if err := b.copyStatic(); err != nil {
				return err
			}
			return b.writeBuildInfo()
		}},
	}

	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			rec.IncPhaseResult(phase.name, metrics.ResultCanceled)
			return err
		}
		start := time.Now()
		warningsBefore := b.env.Warnings()
		err := phase.fn()
		rec.ObservePhaseDuration(phase.name, time.Since(start))
		switch {
		case err != nil && ctx.Err() != nil:
			rec.IncPhaseResult(phase.name, metrics.ResultCanceled)
			return err
		case err != nil:
			rec.IncPhaseResult(phase.name, metrics.ResultFatal)
			return err
		case b.env.Warnings() > warningsBefore:
			rec.IncPhaseResult(phase.name, metrics.ResultWarning)
		default:
			rec.IncPhaseResult(phase.name, metrics.ResultSuccess)
		}
		b.env.Logger.Debug("Phase complete",
			logfields.Phase(phase.name),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	}
	return nil
}

// renderAll renders documents, fires PageContext for every page and writes
// the result.
func (b *builder) renderAll(ctx context.Context, generated []*plugin.Page, opts BuildOptions) error {
	if opts.Clean {
		if err := os.RemoveAll(b.env.OutputDir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
				WithContext("path", b.env.OutputDir).
				Build()
		}
	}

	docs := b.env.Documents()
	pages := make([]*plugin.Page, 0, len(docs)+len(generated))
	for _, doc := range docs {
		page, err := b.documentPage(doc)
		if err != nil {
			return err
		}
		pages = append(pages, page)
	}
	pages = append(pages, generated...)

	hasTagsIndex := false
	for _, p := range generated {
		if p.Name == b.cfg.Tags.IndexDocname() {
			hasTagsIndex = true
		}
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.pageContext(page); err != nil {
			return err
		}
		if err := b.writePage(page, hasTagsIndex); err != nil {
			return err
		}
		b.pagesWritten++
	}
	b.env.Recorder.AddPages(b.pagesWritten)
	return nil
}

// buildFinished fires BuildFinished with the build error. Handler errors
// are reported after every handler has run; the first is returned.
func (b *builder) buildFinished(buildErr error) error {
	var first error
	for _, h := range b.hooks.buildFinished {
		if err := h.fn(b.env, buildErr); err != nil {
			wrapped := pluginFailure(h.plugin, "build-finished", err)
			b.env.Logger.Error("Build finished handler failed", logfields.Plugin(h.plugin), logfields.Error(err))
			if first == nil {
				first = wrapped
			}
		}
	}
	return first
}

func outcomeLabel(status BuildStatus) metrics.BuildOutcomeLabel {
	switch status {
	case BuildStatusSuccess:
		return metrics.BuildOutcomeSuccess
	case BuildStatusWarnings:
		return metrics.BuildOutcomeWarning
	case BuildStatusCancelled:
		return metrics.BuildOutcomeCanceled
	default:
		return metrics.BuildOutcomeFailed
	}
}
