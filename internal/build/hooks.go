package build

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

type owned[T any] struct {
	plugin string
	fn     T
}

// hooks collects what plugins register during Setup. It implements
// plugin.Registrar; current names the plugin being set up.
type hooks struct {
	current string

	nodeKinds  map[ast.NodeKind]plugin.NodeRenderFunc
	directives map[string]owned[plugin.Directive]
	roles      map[string]owned[plugin.Role]

	documentRead     []owned[plugin.DocumentReadHandler]
	envUpdated       []owned[plugin.EnvUpdatedHandler]
	documentResolved []owned[plugin.DocumentResolvedHandler]
	collectPages     []owned[plugin.CollectPagesHandler]
	pageContext      []owned[plugin.PageContextHandler]
	buildFinished    []owned[plugin.BuildFinishedHandler]
}

func newHooks() *hooks {
	return &hooks{
		nodeKinds:  make(map[ast.NodeKind]plugin.NodeRenderFunc),
		directives: make(map[string]owned[plugin.Directive]),
		roles:      make(map[string]owned[plugin.Role]),
	}
}

// setup runs Setup for every plugin in order.
func (h *hooks) setup(plugins []plugin.Plugin) error {
	for _, p := range plugins {
		h.current = p.Metadata().Name
		if err := p.Setup(h); err != nil {
			return errors.WrapError(plugin.NewPluginError(h.current, "setup", err), errors.CategoryPlugin, "plugin setup failed").
				WithContext("plugin", h.current).
				Build()
		}
	}
	h.current = ""
	return nil
}

func (h *hooks) RegisterNodeKind(kind ast.NodeKind, r plugin.NodeRenderFunc) error {
	if r == nil {
		return errors.NewError(errors.CategoryPlugin, "node renderer is nil").WithContext("kind", kind.String()).Build()
	}
	if _, exists := h.nodeKinds[kind]; exists {
		return errors.NewError(errors.CategoryPlugin, "node kind already registered").WithContext("kind", kind.String()).Build()
	}
	h.nodeKinds[kind] = r
	return nil
}

func (h *hooks) RegisterDirective(name string, d plugin.Directive) error {
	if existing, exists := h.directives[name]; exists {
		return errors.NewError(errors.CategoryPlugin, "directive already registered").
			WithContext("directive", name).
			WithContext("owner", existing.plugin).
			Build()
	}
	h.directives[name] = owned[plugin.Directive]{plugin: h.current, fn: d}
	return nil
}

func (h *hooks) RegisterRole(name string, r plugin.Role) error {
	if existing, exists := h.roles[name]; exists {
		return errors.NewError(errors.CategoryPlugin, "role already registered").
			WithContext("role", name).
			WithContext("owner", existing.plugin).
			Build()
	}
	h.roles[name] = owned[plugin.Role]{plugin: h.current, fn: r}
	return nil
}

func (h *hooks) OnDocumentRead(fn plugin.DocumentReadHandler) {
	h.documentRead = append(h.documentRead, owned[plugin.DocumentReadHandler]{h.current, fn})
}

func (h *hooks) OnEnvUpdated(fn plugin.EnvUpdatedHandler) {
	h.envUpdated = append(h.envUpdated, owned[plugin.EnvUpdatedHandler]{h.current, fn})
}

func (h *hooks) OnDocumentResolved(fn plugin.DocumentResolvedHandler) {
	h.documentResolved = append(h.documentResolved, owned[plugin.DocumentResolvedHandler]{h.current, fn})
}

func (h *hooks) OnCollectPages(fn plugin.CollectPagesHandler) {
	h.collectPages = append(h.collectPages, owned[plugin.CollectPagesHandler]{h.current, fn})
}

func (h *hooks) OnPageContext(fn plugin.PageContextHandler) {
	h.pageContext = append(h.pageContext, owned[plugin.PageContextHandler]{h.current, fn})
}

func (h *hooks) OnBuildFinished(fn plugin.BuildFinishedHandler) {
	h.buildFinished = append(h.buildFinished, owned[plugin.BuildFinishedHandler]{h.current, fn})
}

// nodeRenderer exposes plugin node renderers to goldmark.
func (h *hooks) nodeRenderer() renderer.NodeRenderer {
	return kindRenderer(h.nodeKinds)
}

type kindRenderer map[ast.NodeKind]plugin.NodeRenderFunc

func (k kindRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	for kind, fn := range k {
		reg.Register(kind, fn)
	}
}

// directive looks up a registered directive.
func (h *hooks) directive(name string) (plugin.Directive, bool) {
	d, ok := h.directives[name]
	return d.fn, ok
}

func pluginFailure(pluginName, operation string, err error) error {
	return errors.WrapError(plugin.NewPluginError(pluginName, operation, err), errors.CategoryPlugin, "plugin failed").
		WithContext("plugin", pluginName).
		WithContext("phase", operation).
		Build()
}
