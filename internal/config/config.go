// Package config loads and validates blogsmith.yaml.
package config

import (
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when -c is not given.
const DefaultPath = "blogsmith.yaml"

// Config represents the application configuration.
type Config struct {
	Project         ProjectConfig      `yaml:"project"`
	Paths           PathsConfig        `yaml:"paths"`
	ExcludePatterns []string           `yaml:"exclude_patterns,omitempty"`
	HTML            HTMLConfig         `yaml:"html"`
	Tags            TagsConfig         `yaml:"tags"`
	Extlinks        map[string]Extlink `yaml:"extlinks,omitempty"`
	GitHubRef       string             `yaml:"github_ref,omitempty"`
	Prolog          PrologConfig       `yaml:"prolog"`
	Redirects       map[string]string  `yaml:"redirects,omitempty"`
	Logging         LoggingConfig      `yaml:"logging"`
	Metrics         MetricsConfig      `yaml:"metrics"`
	Serve           ServeConfig        `yaml:"serve"`

	// baseDir is the directory containing the configuration file; relative
	// paths are resolved against it.
	baseDir string
}

// ProjectConfig holds site identity.
type ProjectConfig struct {
	Name      string `yaml:"name"`
	Author    string `yaml:"author,omitempty"`
	Copyright string `yaml:"copyright,omitempty"`
	MasterDoc string `yaml:"master_doc,omitempty"`
}

// PathsConfig locates inputs and outputs.
type PathsConfig struct {
	Source    string   `yaml:"source"`
	Output    string   `yaml:"output"`
	Templates string   `yaml:"templates,omitempty"`
	Static    []string `yaml:"static,omitempty"`
	Examples  string   `yaml:"examples,omitempty"`
	Favicon   string   `yaml:"favicon,omitempty"`
}

// HTMLConfig controls page chrome.
type HTMLConfig struct {
	Title             string   `yaml:"title,omitempty"`
	ShortTitle        string   `yaml:"short_title,omitempty"`
	CSSFiles          []string `yaml:"css_files,omitempty"`
	GlobalTOCCollapse bool     `yaml:"globaltoc_collapse"`
}

// TagsConfig controls tag page generation.
type TagsConfig struct {
	Create     bool   `yaml:"create"`
	Directory  string `yaml:"directory,omitempty"`
	IntroText  string `yaml:"intro_text,omitempty"`
	PageTitle  string `yaml:"page_title,omitempty"`
	IndexHead  string `yaml:"index_head,omitempty"`
	PageHeader string `yaml:"page_header,omitempty"`
}

// TagsIndexName is the page name of the tag index inside the tags directory.
const TagsIndexName = "tagsindex"

// IndexDocname returns the document name of the tag index page.
func (t TagsConfig) IndexDocname() string {
	return path.Join(t.Directory, TagsIndexName)
}

// Extlink is a link shortcut. Pattern and Caption contain %s; Caption may be empty.
type Extlink struct {
	Pattern string `yaml:"pattern"`
	Caption string `yaml:"caption,omitempty"`
}

// PrologConfig declares roles and substitutions available to every document.
type PrologConfig struct {
	ClassRoles    map[string]string       `yaml:"class_roles,omitempty"`
	Substitutions map[string]Substitution `yaml:"substitutions,omitempty"`
}

// Substitution expands |name| either to raw HTML or to a directive's output.
type Substitution struct {
	Raw       string `yaml:"raw,omitempty"`
	Directive string `yaml:"directive,omitempty"`
	Args      string `yaml:"args,omitempty"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Port            int    `yaml:"port,omitempty"`
	RebuildInterval string `yaml:"rebuild_interval,omitempty"`
}

// Load loads configuration from the specified file, applies defaults and validates it.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	// #nosec G304 -- path is given on the command line.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	abs, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve config directory").Build()
	}
	cfg.baseDir = abs

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration after environment expansion and applies defaults.
// It does not validate.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BaseDir returns the directory relative paths are resolved against.
func (c *Config) BaseDir() string {
	if c.baseDir == "" {
		return "."
	}
	return c.baseDir
}

// SetBaseDir overrides the directory relative paths are resolved against.
func (c *Config) SetBaseDir(dir string) {
	c.baseDir = dir
}

// Resolve joins a configured path with the base directory unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir(), p)
}

// SourceDir returns the absolute-or-relative resolved source directory.
func (c *Config) SourceDir() string { return c.Resolve(c.Paths.Source) }

// OutputDir returns the resolved output directory.
func (c *Config) OutputDir() string { return c.Resolve(c.Paths.Output) }

// TemplatesDir resolves the templates directory relative to the source directory.
func (c *Config) TemplatesDir() string { return c.resolveInSource(c.Paths.Templates) }

// StaticDirs resolves static directories relative to the source directory.
func (c *Config) StaticDirs() []string {
	out := make([]string, 0, len(c.Paths.Static))
	for _, s := range c.Paths.Static {
		out = append(out, c.resolveInSource(s))
	}
	return out
}

// ExamplesDir returns the resolved examples directory, or "" when unset.
func (c *Config) ExamplesDir() string { return c.Resolve(c.Paths.Examples) }

func (c *Config) resolveInSource(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.SourceDir(), p)
}
