package build

import (
	"bytes"
	"html"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
	"git.home.luguber.info/inful/blogsmith/internal/theme"
)

// StaticDir is where static assets are copied inside the output directory.
const StaticDir = "_static"

// collectPages fires CollectPages. Generated pages that collide with a
// document or an earlier generated page are skipped with a warning.
func (b *builder) collectPages() ([]*plugin.Page, error) {
	seen := map[string]bool{}
	var pages []*plugin.Page
	for _, h := range b.hooks.collectPages {
		extra, err := h.fn(b.env)
		if err != nil {
			return nil, pluginFailure(h.plugin, "collect-pages", err)
		}
		for _, p := range extra {
			if _, isDoc := b.env.Doc(p.Name); isDoc || seen[p.Name] {
				b.env.Warn("page_collision", "Generated page collides with an existing page",
					logfields.Page(p.Name), logfields.Plugin(h.plugin))
				continue
			}
			seen[p.Name] = true
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// documentPage renders doc's tree into a page.
func (b *builder) documentPage(doc *plugin.Document) (*plugin.Page, error) {
	body, err := markup.Render(b.md, doc.Source, doc.Tree)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render document").
			WithContext("docname", doc.Name).
			Build()
	}
	return &plugin.Page{
		Name:  doc.Name,
		Title: doc.Title,
		Body:  body,
		TOC:   localTOC(doc),
		Meta:  doc.Declarations,
		Doc:   doc,
	}, nil
}

// localTOC lists the second and third level headings of doc.
func localTOC(doc *plugin.Document) string {
	var b strings.Builder
	for _, h := range headings(doc.Tree) {
		if h.Level < 2 || h.Level > 3 {
			continue
		}
		id := markup.HeadingID(h)
		if id == "" {
			continue
		}
		b.WriteString(`<li class="toc-l`)
		b.WriteByte(byte('0' + h.Level - 1))
		b.WriteString(`"><a href="#`)
		b.WriteString(html.EscapeString(id))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(markup.PlainText(h, doc.Source)))
		b.WriteString("</a></li>\n")
	}
	if b.Len() == 0 {
		return ""
	}
	return "<ul>\n" + b.String() + "</ul>"
}

// pageContext fires PageContext for page.
func (b *builder) pageContext(page *plugin.Page) error {
	for _, h := range b.hooks.pageContext {
		if err := h.fn(b.env, page); err != nil {
			return pluginFailure(h.plugin, "page-context", err)
		}
	}
	return nil
}

// writePage applies the layout and writes <output>/<name>.html.
func (b *builder) writePage(page *plugin.Page, hasTagsIndex bool) error {
	data := b.pageData(page, hasTagsIndex)

	var buf bytes.Buffer
	if err := b.theme.Render(&buf, data); err != nil {
		return err
	}

	target := PagePath(b.env.OutputDir, page.Name)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create page directory").
			WithContext("path", filepath.Dir(target)).
			Build()
	}
	// #nosec G306 -- rendered pages are public site output
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", target).
			Build()
	}
	b.env.Logger.Debug("Wrote page", logfields.Page(page.Name), logfields.Path(target))
	return nil
}

func (b *builder) pageData(page *plugin.Page, hasTagsIndex bool) theme.PageData {
	cfg := b.cfg
	root := RootPrefix(page.Name)

	data := theme.PageData{
		SiteTitle:  cfg.HTML.Title,
		ShortTitle: cfg.HTML.ShortTitle,
		Title:      page.Title,
		Pagename:   page.Name,
		Meta:       page.Meta,
		IndexURL:   plugin.RelativeURL(page.Name, cfg.Project.MasterDoc, ""),
		Copyright:  cfg.Project.Copyright,
		Author:     cfg.Project.Author,
	}
	// #nosec G203 -- body and toc are produced by the renderer and plugins
	data.Body, data.TOC = template.HTML(page.Body), template.HTML(page.TOC)
	for _, css := range cfg.HTML.CSSFiles {
		data.CSSFiles = append(data.CSSFiles, assetURL(root, css))
	}
	if cfg.Paths.Favicon != "" {
		data.Favicon = root + cfg.Paths.Favicon
	}
	if hasTagsIndex {
		data.TagsURL = plugin.RelativeURL(page.Name, cfg.Tags.IndexDocname(), "")
	}
	return data
}

// assetURL places bare file names in the static directory. Absolute URLs
// are kept.
func assetURL(root, file string) string {
	switch {
	case strings.Contains(file, "://"), strings.HasPrefix(file, "/"):
		return file
	case strings.Contains(file, "/"):
		return root + file
	default:
		return root + path.Join(StaticDir, file)
	}
}

// PagePath returns the output file of a page.
func PagePath(outputDir, name string) string {
	return filepath.Join(outputDir, filepath.FromSlash(name)+".html")
}

// RootPrefix returns the relative path from a page to the output root.
func RootPrefix(name string) string {
	return strings.Repeat("../", strings.Count(name, "/"))
}
