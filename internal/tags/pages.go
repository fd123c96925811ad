package tags

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// DataFile is written next to the tag pages and lists every tag.
const DataFile = "tags.yaml"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type entry struct {
	Title string
	URL   string
	Count int
}

type tagPageData struct {
	Slug    string
	Heading string
	Intro   string
	Header  string
	Entries []entry
}

type indexPageData struct {
	Heading string
	Entries []entry
}

func pageName(env *plugin.Env, tag string) string {
	return path.Join(env.Config.Tags.Directory, Slug(tag))
}

// TagPages returns one page per tag and the tag index.
func TagPages(env *plugin.Env, all []Tag) ([]*plugin.Page, error) {
	cfg := env.Config.Tags
	pages := make([]*plugin.Page, 0, len(all)+1)
	index := indexPageData{Heading: cfg.IndexHead}

	for _, t := range all {
		name := pageName(env, t.Name)
		data := tagPageData{
			Slug:    t.Slug,
			Heading: cfg.PageTitle + ": " + t.Name,
			Intro:   cfg.IntroText,
			Header:  cfg.PageHeader,
		}
		for _, doc := range t.Docs {
			data.Entries = append(data.Entries, entry{Title: env.Title(doc), URL: plugin.RelativeURL(name, doc, "")})
		}
		body, err := execute("tag.html", data)
		if err != nil {
			return nil, err
		}
		pages = append(pages, &plugin.Page{Name: name, Title: data.Heading, Body: body})
		index.Entries = append(index.Entries, entry{
			Title: t.Name,
			URL:   plugin.RelativeURL(cfg.IndexDocname(), name, ""),
			Count: len(t.Docs),
		})
	}

	body, err := execute("tagsindex.html", index)
	if err != nil {
		return nil, err
	}
	pages = append(pages, &plugin.Page{Name: cfg.IndexDocname(), Title: cfg.IndexHead, Body: body})
	return pages, nil
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "failed to render tag page").
			WithContext("template", name).
			Build()
	}
	return buf.String(), nil
}

// dataEntry is one tag in DataFile.
type dataEntry struct {
	Name string   `yaml:"name"`
	Slug string   `yaml:"slug"`
	Docs []string `yaml:"docs"`
}

// writeData writes DataFile into the tags output directory.
func writeData(env *plugin.Env, all []Tag) error {
	entries := make([]dataEntry, 0, len(all))
	for _, t := range all {
		entries = append(entries, dataEntry{Name: t.Name, Slug: t.Slug, Docs: t.Docs})
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode tag data").Build()
	}
	dir := filepath.Join(env.OutputDir, filepath.FromSlash(env.Config.Tags.Directory))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create tags directory").
			WithContext("path", dir).
			Build()
	}
	target := filepath.Join(dir, DataFile)
	// #nosec G306 -- tag data is public site output
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write tag data").
			WithContext("path", target).
			Build()
	}
	env.Logger.Debug("Wrote tag data", logfields.Path(target), logfields.Count(len(entries)))
	return nil
}

// ReadData loads the tag data written by a build.
func ReadData(outputDir string, cfg config.TagsConfig) ([]Tag, error) {
	p := filepath.Join(outputDir, filepath.FromSlash(cfg.Directory), DataFile)
	// #nosec G304 -- output directory comes from configuration
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read tag data").
			WithContext("path", p).
			Build()
	}
	var entries []dataEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "failed to parse tag data").
			WithContext("path", p).
			Build()
	}
	out := make([]Tag, 0, len(entries))
	for _, e := range entries {
		out = append(out, Tag{Name: e.Name, Slug: e.Slug, Docs: e.Docs})
	}
	return out, nil
}
