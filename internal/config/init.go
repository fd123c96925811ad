package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

const disqusEmbed = `<div id="disqus_thread"></div>
<script type="text/javascript">
    var disqus_shortname = 'aholmes';
    (function ()
    {
        var dsq = document.createElement('script'); dsq.type = 'text/javascript'; dsq.async = true;
        dsq.src = '//' + disqus_shortname + '.disqus.com/embed.js';
        (document.getElementsByTagName('head')[0] || document.getElementsByTagName('body')[0]).appendChild(dsq);
    })();
</script>`

const ctaBadge = `<hr class="docutils">
<span>Need additional help? Consider contacting me on <a href="https://www.codementor.io/@aholmes"><img src="https://cdn.codementor.io/badges/book_session_github.svg" alt="Book session on Codementor" style="display:inline;margin:0;vertical-align:middle;" /></a></span>`

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Project: ProjectConfig{
			Name:      "Aaron Holmes' thoughts",
			Author:    "Aaron Holmes",
			Copyright: "2025, Aaron Holmes",
			MasterDoc: "index",
		},
		Paths: PathsConfig{
			Source:    "source",
			Output:    "build/html",
			Templates: "_templates",
			Static:    []string{"_static"},
			Examples:  "examples",
			Favicon:   "_static/favicon.ico",
		},
		HTML: HTMLConfig{
			CSSFiles:          []string{"custom.css"},
			GlobalTOCCollapse: false,
		},
		Tags: TagsConfig{
			Create:     true,
			PageTitle:  "Tag",
			IndexHead:  "Tags",
			PageHeader: "Pages with this tag",
		},
		Extlinks: map[string]Extlink{
			"source": {
				Pattern: "https://github.com/aholmes/blog.aaronholmes.net/blob/{ref}/%s",
			},
			"example": {
				Pattern: "https://github.com/aholmes/blog.aaronholmes.net/blob/{ref}/examples/%s",
				Caption: "Review example sources [%s]",
			},
			"archive": {
				Pattern: "https://blog.aaronholmes.net.github.io/aholmes/blog.aaronholmes.net/_downloads/%s.zip",
				Caption: "Download example archive [%s.zip]",
			},
		},
		Prolog: PrologConfig{
			ClassRoles: map[string]string{
				"underline": "underline",
				"strike":    "strike",
			},
			Substitutions: map[string]Substitution{
				"pagedate": {Directive: "pagedate"},
				"cta":      {Raw: ctaBadge},
				"disqus":   {Raw: disqusEmbed},
			},
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Serve:   ServeConfig{Port: 8000},
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Example()); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := enc.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
