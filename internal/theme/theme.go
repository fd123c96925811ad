// Package theme renders pages into the site layout.
package theme

import (
	"embed"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogsmith/internal/docmodel"
	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

// LayoutName is the template file looked up in the templates directory.
const LayoutName = "page.html"

//go:embed templates/page.html
var defaultFS embed.FS

// PageData is the context the layout template is executed with.
type PageData struct {
	SiteTitle  string
	ShortTitle string
	Title      string
	Pagename   string
	Body       template.HTML
	TOC        template.HTML
	Meta       []docmodel.Declaration
	CSSFiles   []string
	Favicon    string
	IndexURL   string
	TagsURL    string
	Copyright  string
	Author     string
}

// Theme is a parsed page layout.
type Theme struct {
	tmpl   *template.Template
	source string
}

// Load parses templatesDir/page.html when it exists, otherwise the built-in layout.
func Load(templatesDir string) (*Theme, error) {
	if templatesDir != "" {
		path := filepath.Join(templatesDir, LayoutName)
		// #nosec G304 -- templates directory comes from configuration.
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			tmpl, perr := template.New(LayoutName).Parse(string(data))
			if perr != nil {
				return nil, errors.WrapError(perr, errors.CategoryRender, "failed to parse page template").
					WithContext("path", path).
					Build()
			}
			return &Theme{tmpl: tmpl, source: path}, nil
		case !os.IsNotExist(err):
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read page template").
				WithContext("path", path).
				Build()
		}
	}

	tmpl, err := template.ParseFS(defaultFS, "templates/"+LayoutName)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse built-in template").Build()
	}
	return &Theme{tmpl: tmpl, source: "builtin"}, nil
}

// Source names where the layout was loaded from ("builtin" or a file path).
func (t *Theme) Source() string { return t.source }

// Render executes the layout.
func (t *Theme) Render(w io.Writer, data PageData) error {
	if err := t.tmpl.Execute(w, data); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "failed to render page").
			WithContext("page", data.Pagename).
			Build()
	}
	return nil
}
