package plugin

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/docmodel"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metadata"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
)

// Env is the state of one build, handed to every phase handler.
// Phases run sequentially; nothing here is safe for concurrent use.
type Env struct {
	Config    *config.Config
	Metadata  *metadata.Store
	Logger    *slog.Logger
	Recorder  metrics.Recorder
	BuildID   string
	OutputDir string

	docs       map[string]*Document
	order      []string
	labels     map[string]Label
	warnings   int
	directives func(name string) (Directive, bool)
}

// NewEnv creates an empty build environment.
func NewEnv(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	env := &Env{
		Config:   cfg,
		Metadata: metadata.NewStore(),
		Logger:   logger,
		Recorder: rec,
		docs:     make(map[string]*Document),
		labels:   make(map[string]Label),
	}
	if cfg != nil {
		env.OutputDir = cfg.OutputDir()
	}
	return env
}

// Label is a cross-reference target.
type Label struct {
	Docname string
	Anchor  string
	Title   string
}

// Document is a source document being built.
type Document struct {
	// Name is the document identifier: the slash-separated source path
	// without extension.
	Name       string
	SourcePath string
	Parsed     *docmodel.ParsedDoc
	// Source is the body the Tree's segments point into.
	Source []byte
	Tree   ast.Node
	Title  string
	// Declarations are the metadata declarations from frontmatter and meta
	// directives, in document order.
	Declarations []docmodel.Declaration
}

// Field returns a raw frontmatter value.
func (d *Document) Field(key string) (any, bool) {
	if d.Parsed == nil {
		return nil, false
	}
	return d.Parsed.Field(key)
}

// Page is an HTML page about to be written to <output>/<Name>.html.
type Page struct {
	Name  string
	Title string
	// Body is the rendered HTML body; PageContext handlers may rewrite it.
	Body string
	// TOC is the rendered local table of contents.
	TOC  string
	Meta []docmodel.Declaration
	// Doc is nil for generated pages.
	Doc *Document
}

// Dir returns the directory part of the page name ("" at the root).
func (p *Page) Dir() string {
	dir := path.Dir(p.Name)
	if dir == "." {
		return ""
	}
	return dir
}

// AddDocument records doc. A document with the same name is replaced.
func (e *Env) AddDocument(doc *Document) {
	if _, exists := e.docs[doc.Name]; !exists {
		e.order = append(e.order, doc.Name)
		sort.Strings(e.order)
	}
	e.docs[doc.Name] = doc
}

// Doc returns the named document.
func (e *Env) Doc(name string) (*Document, bool) {
	d, ok := e.docs[name]
	return d, ok
}

// Documents returns all documents ordered by name.
func (e *Env) Documents() []*Document {
	out := make([]*Document, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.docs[name])
	}
	return out
}

// Title returns the title of a document, or its name when it has none.
func (e *Env) Title(docname string) string {
	if d, ok := e.docs[docname]; ok && d.Title != "" {
		return d.Title
	}
	return docname
}

// SetLabel registers a cross-reference label. It reports false, keeping the
// existing label, when name is already taken.
func (e *Env) SetLabel(name string, l Label) bool {
	if _, exists := e.labels[name]; exists {
		return false
	}
	e.labels[name] = l
	return true
}

// Label looks up a cross-reference label.
func (e *Env) Label(name string) (Label, bool) {
	l, ok := e.labels[name]
	return l, ok
}

// Warn logs a build warning and counts it.
func (e *Env) Warn(kind, msg string, attrs ...any) {
	e.warnings++
	e.Recorder.IncWarnings(kind)
	e.Logger.Warn(msg, append([]any{slog.String("warning", kind)}, attrs...)...)
}

// Warnings returns the number of warnings raised so far.
func (e *Env) Warnings() int {
	return e.warnings
}

// DocLogger returns the environment logger annotated with a document name.
func (e *Env) DocLogger(docname string) *slog.Logger {
	return e.Logger.With(logfields.Docname(docname))
}

// RelativeURL returns the URL of page to, with an optional fragment, as seen
// from page from.
func RelativeURL(from, to, anchor string) string {
	fromDir := strings.Split(path.Dir(from), "/")
	if fromDir[0] == "." {
		fromDir = nil
	}
	target := strings.Split(to, "/")

	common := 0
	for common < len(fromDir) && common < len(target)-1 && fromDir[common] == target[common] {
		common++
	}

	parts := make([]string, 0, len(fromDir)-common+len(target)-common)
	for i := common; i < len(fromDir); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, target[common:]...)

	u := strings.Join(parts, "/") + ".html"
	if anchor != "" {
		u += "#" + anchor
	}
	return u
}

// SetDirectiveLookup installs the lookup used by Directive.
func (e *Env) SetDirectiveLookup(lookup func(name string) (Directive, bool)) {
	e.directives = lookup
}

// Directive returns a directive registered by any plugin.
func (e *Env) Directive(name string) (Directive, bool) {
	if e.directives == nil {
		return nil, false
	}
	return e.directives(name)
}
