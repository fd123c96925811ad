package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/blogsmith/internal/build"
	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides paths.output)" type:"path"`
	Clean  bool   `help:"Remove the output directory before building"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return b.run(ctx, g, root)
}

func (b *BuildCmd) run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	svc, _ := newBuildService(cfg, g.Logger)
	res, err := svc.Run(ctx, build.BuildRequest{
		Config:    cfg,
		OutputDir: b.Output,
		Options:   build.BuildOptions{Clean: b.Clean},
	})
	if err != nil {
		return err
	}
	if !res.Status.IsSuccess() {
		return errors.NewError(errors.CategoryBuild, fmt.Sprintf("build %s", res.Status)).
			WithContext("build_id", res.BuildID).
			Build()
	}

	fmt.Printf("Built %d pages from %d documents into %s (%d warnings)\n",
		res.Pages, res.Documents, res.OutputPath, res.Warnings)
	return nil
}
