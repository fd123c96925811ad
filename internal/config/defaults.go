package config

import (
	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ProjectDefaultApplier handles project defaults.
type ProjectDefaultApplier struct{}

func (p *ProjectDefaultApplier) Domain() string { return "project" }

func (p *ProjectDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Project.MasterDoc == "" {
		cfg.Project.MasterDoc = "index"
	}
	return nil
}

// PathsDefaultApplier handles input and output path defaults.
type PathsDefaultApplier struct{}

func (p *PathsDefaultApplier) Domain() string { return "paths" }

func (p *PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.Source == "" {
		cfg.Paths.Source = "source"
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = "build/html"
	}
	if cfg.Paths.Templates == "" {
		cfg.Paths.Templates = "_templates"
	}
	if cfg.Paths.Static == nil {
		cfg.Paths.Static = []string{"_static"}
	}
	return nil
}

// HTMLDefaultApplier derives page titles from the project name.
type HTMLDefaultApplier struct{}

func (h *HTMLDefaultApplier) Domain() string { return "html" }

func (h *HTMLDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.HTML.Title == "" {
		cfg.HTML.Title = cfg.Project.Name
	}
	if cfg.HTML.ShortTitle == "" {
		cfg.HTML.ShortTitle = cfg.HTML.Title
	}
	return nil
}

// TagsDefaultApplier handles tag page defaults.
type TagsDefaultApplier struct{}

func (t *TagsDefaultApplier) Domain() string { return "tags" }

func (t *TagsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Tags.Directory == "" {
		cfg.Tags.Directory = "_tags"
	}
	if cfg.Tags.PageTitle == "" {
		cfg.Tags.PageTitle = "Tag"
	}
	if cfg.Tags.IndexHead == "" {
		cfg.Tags.IndexHead = "Tags"
	}
	if cfg.Tags.PageHeader == "" {
		cfg.Tags.PageHeader = "With this tag"
	}
	return nil
}

// LoggingDefaultApplier normalizes level and format.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

// ServeDefaultApplier handles preview server defaults.
type ServeDefaultApplier struct{}

func (s *ServeDefaultApplier) Domain() string { return "serve" }

func (s *ServeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = 8000
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		&ProjectDefaultApplier{},
		&PathsDefaultApplier{},
		&HTMLDefaultApplier{},
		&TagsDefaultApplier{},
		&LoggingDefaultApplier{},
		&ServeDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers() {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to apply defaults").
				WithContext("domain", applier.Domain()).
				Build()
		}
	}
	return nil
}
