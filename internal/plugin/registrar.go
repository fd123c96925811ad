package plugin

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"

	"git.home.luguber.info/inful/blogsmith/internal/markup"
)

// NodeRenderFunc renders one node kind to HTML.
type NodeRenderFunc = renderer.NodeRendererFunc

// Phase handlers, listed in the order the build fires them.
type (
	DocumentReadHandler     func(env *Env, doc *Document) error
	EnvUpdatedHandler       func(env *Env) error
	DocumentResolvedHandler func(env *Env, doc *Document) error
	CollectPagesHandler     func(env *Env) ([]*Page, error)
	PageContextHandler      func(env *Env, page *Page) error
	BuildFinishedHandler    func(env *Env, buildErr error) error
)

// Registrar is the fixed capability set offered to plugins during Setup.
type Registrar interface {
	RegisterNodeKind(kind ast.NodeKind, r NodeRenderFunc) error
	RegisterDirective(name string, d Directive) error
	RegisterRole(name string, r Role) error

	OnDocumentRead(h DocumentReadHandler)
	OnEnvUpdated(h EnvUpdatedHandler)
	OnDocumentResolved(h DocumentResolvedHandler)
	OnCollectPages(h CollectPagesHandler)
	OnPageContext(h PageContextHandler)
	OnBuildFinished(h BuildFinishedHandler)
}

// RoleCall is one role occurrence in a document.
type RoleCall struct {
	Env  *Env
	Doc  *Document
	Name string
	Text string
}

// Role expands a role occurrence into inline nodes.
type Role interface {
	Run(call RoleCall) ([]ast.Node, error)
}

// RoleFunc adapts a function to Role.
type RoleFunc func(call RoleCall) ([]ast.Node, error)

func (f RoleFunc) Run(call RoleCall) ([]ast.Node, error) { return f(call) }

// DirectiveCall is one directive occurrence. Inline is set when the directive
// runs through a substitution inside a paragraph.
type DirectiveCall struct {
	Env    *Env
	Doc    *Document
	Node   *markup.Directive
	Inline bool
}

// Directive expands a directive occurrence into nodes. Inline results are
// wrapped in a paragraph when the directive stands as a block.
type Directive interface {
	Run(call DirectiveCall) ([]ast.Node, error)
}

// DirectiveFunc adapts a function to Directive.
type DirectiveFunc func(call DirectiveCall) ([]ast.Node, error)

func (f DirectiveFunc) Run(call DirectiveCall) ([]ast.Node, error) { return f(call) }
