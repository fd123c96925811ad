package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/blogsmith/internal/build"
	"git.home.luguber.info/inful/blogsmith/internal/preview"
)

// ServeCmd builds the site, serves it locally and rebuilds on change.
type ServeCmd struct {
	Port int `short:"p" help:"Port to serve on (overrides serve.port)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}

	svc, gatherer := newBuildService(cfg, g.Logger)
	srv, err := preview.New(preview.Options{
		Config: cfg,
		Build: func(ctx context.Context) (*build.BuildResult, error) {
			return svc.Run(ctx, build.BuildRequest{Config: cfg})
		},
		Gatherer:      gatherer,
		MetricsListen: cfg.Metrics.Listen,
		Logger:        g.Logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
