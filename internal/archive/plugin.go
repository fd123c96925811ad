package archive

import (
	"os"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// Plugin zips example projects after a successful build.
type Plugin struct{}

// New returns the archive plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "archive",
		Version:     "v1.0.0",
		Type:        plugin.PluginTypePublisher,
		Description: "Downloadable zip archives of example projects",
	}
}

func (p *Plugin) Setup(r plugin.Registrar) error {
	r.OnBuildFinished(packageExamples)
	return nil
}

func packageExamples(env *plugin.Env, buildErr error) error {
	if buildErr != nil || env.Config == nil {
		return nil
	}
	dir := env.Config.ExamplesDir()
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		env.Logger.Debug("No examples directory", logfields.Path(dir))
		return nil
	}

	results, err := PackageExamples(dir, env.OutputDir, env.Config.ExcludePatterns)
	for _, res := range results {
		env.Recorder.IncArchive(true)
		env.Logger.Info("Wrote example archive",
			logfields.Archive(res.Name),
			logfields.Path(res.Path),
			logfields.Count(res.Files))
	}
	if err != nil {
		env.Recorder.IncArchive(false)
		return err
	}
	return nil
}
