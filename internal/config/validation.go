package config

import (
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	checks := []func() error{
		cv.validatePaths,
		cv.validateExcludePatterns,
		cv.validateExtlinks,
		cv.validateProlog,
		cv.validateRedirects,
		cv.validateServe,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	p := cv.config.Paths
	if strings.TrimSpace(p.Source) == "" {
		return errors.ValidationError("paths.source cannot be empty").Build()
	}
	if strings.TrimSpace(p.Output) == "" {
		return errors.ValidationError("paths.output cannot be empty").Build()
	}
	if filepath.Clean(cv.config.SourceDir()) == filepath.Clean(cv.config.OutputDir()) {
		return errors.ValidationError("paths.output must differ from paths.source").
			WithContext("path", p.Output).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateExcludePatterns() error {
	for _, pattern := range cv.config.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.ValidationError("invalid exclude pattern").
				WithContext("pattern", pattern).
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateExtlinks() error {
	for name, link := range cv.config.Extlinks {
		if name == "" {
			return errors.ValidationError("extlink name cannot be empty").Build()
		}
		if strings.Count(link.Pattern, "%s") != 1 {
			return errors.ValidationError("extlink pattern must contain exactly one %s").
				WithContext("extlink", name).
				Build()
		}
		if link.Caption != "" && strings.Count(link.Caption, "%s") != 1 {
			return errors.ValidationError("extlink caption must contain exactly one %s").
				WithContext("extlink", name).
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateProlog() error {
	for name, sub := range cv.config.Prolog.Substitutions {
		hasRaw := sub.Raw != ""
		hasDirective := sub.Directive != ""
		if hasRaw == hasDirective {
			return errors.ValidationError("substitution must set exactly one of raw or directive").
				WithContext("substitution", name).
				Build()
		}
	}
	for role, class := range cv.config.Prolog.ClassRoles {
		if strings.TrimSpace(class) == "" {
			return errors.ValidationError("class role requires a class").
				WithContext("role", role).
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateRedirects() error {
	for source, target := range cv.config.Redirects {
		if source == "" || path.IsAbs(source) || strings.Contains(source, "..") {
			return errors.ValidationError("redirect source must be a relative document name").
				WithContext("source", source).
				Build()
		}
		if target == "" {
			return errors.ValidationError("redirect target cannot be empty").
				WithContext("source", source).
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateServe() error {
	if cv.config.Serve.Port < 0 || cv.config.Serve.Port > 65535 {
		return errors.ValidationError("serve.port out of range").
			WithContext("port", cv.config.Serve.Port).
			Build()
	}
	if _, err := cv.config.Serve.Interval(); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid serve.rebuild_interval").
			WithContext("value", cv.config.Serve.RebuildInterval).
			Build()
	}
	return nil
}

// Interval parses RebuildInterval. An empty value disables periodic rebuilds.
func (s ServeConfig) Interval() (time.Duration, error) {
	if s.RebuildInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.RebuildInterval)
	if err != nil {
		return 0, err
	}
	if d < time.Second {
		return 0, errors.ValidationError("rebuild interval must be at least 1s").Build()
	}
	return d, nil
}
