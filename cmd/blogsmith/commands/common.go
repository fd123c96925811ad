package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogsmith/internal/archive"
	"git.home.luguber.info/inful/blogsmith/internal/build"
	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/extlinks"
	"git.home.luguber.info/inful/blogsmith/internal/gitref"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/pagedate"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
	"git.home.luguber.info/inful/blogsmith/internal/prolog"
	"git.home.luguber.info/inful/blogsmith/internal/redirects"
	"git.home.luguber.info/inful/blogsmith/internal/tags"
)

// LogLevelEnv overrides the log level from the command line and config.
const LogLevelEnv = "BLOGSMITH_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogsmith.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build       BuildCmd   `cmd:"" help:"Build the site into the output directory"`
	Serve       ServeCmd   `cmd:"" help:"Build, serve and rebuild the site on change"`
	Init        InitCmd    `cmd:"" help:"Write an example configuration file"`
	VersionInfo VersionCmd `cmd:"" name:"version" help:"Print version information"`

	// LogOutput replaces stderr as the log destination.
	LogOutput io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing and installs the default logger.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = c.newLogger("", "")
	slog.SetDefault(g.Logger)
	return nil
}

// newLogger builds the logger for the configured level and format.
// -v forces debug; BLOGSMITH_LOG_LEVEL wins over both.
func (c *CLI) newLogger(level config.LogLevel, format config.LogFormat) *slog.Logger {
	lvl := config.NormalizeLogLevel(string(level)).SlogLevel()
	if c.Verbose {
		lvl = slog.LevelDebug
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		lvl = config.NormalizeLogLevel(env).SlogLevel()
	}

	out := c.LogOutput
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if config.NormalizeLogFormat(string(format)) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// loadConfig loads the configuration and reinstalls the default logger with
// its logging section.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = c.newLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// newRegistry returns the plugins set up for every build of cfg, in order.
func newRegistry(cfg *config.Config, logger *slog.Logger) *plugin.Registry {
	ref, source := gitref.Resolve(cfg.GitHubRef, cfg.BaseDir())
	logger.Debug("Resolved git ref", slog.String("ref", ref), slog.String("source", string(source)))

	registry := plugin.NewRegistry()
	registry.MustRegister(
		pagedate.New(),
		tags.New(),
		extlinks.New(cfg.Extlinks, ref),
		prolog.New(cfg.Prolog),
		archive.New(),
		redirects.New(),
	)
	return registry
}

// newBuildService wires plugins, logging and, when metrics are enabled, a
// Prometheus recorder. The returned gatherer is nil without metrics.
func newBuildService(cfg *config.Config, logger *slog.Logger) (*build.DefaultBuildService, prom.Gatherer) {
	svc := build.NewBuildService().
		WithPlugins(newRegistry(cfg, logger)).
		WithLogger(logger)
	if !cfg.Metrics.Enabled {
		return svc, nil
	}
	reg := prom.NewRegistry()
	return svc.WithRecorder(metrics.NewPrometheusRecorder(reg)), reg
}
