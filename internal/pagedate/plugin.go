package pagedate

import (
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

const (
	DirectiveName = "pagedate"
	RoleName      = "date"
)

// Plugin wires date annotation into the build.
type Plugin struct{}

// New returns the pagedate plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "pagedate",
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeTransform,
		Description: "Document dates on pages and in tables of contents",
	}
}

func (p *Plugin) Setup(r plugin.Registrar) error {
	if err := r.RegisterNodeKind(KindPageDate, renderMarker); err != nil {
		return err
	}
	if err := r.RegisterDirective(DirectiveName, plugin.DirectiveFunc(pageDateDirective)); err != nil {
		return err
	}
	if err := r.RegisterRole(RoleName, plugin.RoleFunc(dateRole)); err != nil {
		return err
	}
	r.OnDocumentRead(CollectDates)
	r.OnDocumentResolved(RenderPageDates)
	r.OnPageContext(annotatePage)
	return nil
}

func annotatePage(env *plugin.Env, page *plugin.Page) error {
	body, n := AnnotateTOC(env.Metadata, page.Name, page.Body)
	if n == 0 {
		return nil
	}
	page.Body = body
	for i := 0; i < n; i++ {
		env.Recorder.IncDateAnnotation(metrics.DateSiteTOC)
	}
	env.Logger.Debug("Annotated table of contents", logfields.Page(page.Name), logfields.Count(n))
	return nil
}
