package tags

import (
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

const (
	DirectiveName = "tags"
	RoleName      = "tag"
)

// Plugin collects tags and generates tag pages.
type Plugin struct{}

// New returns the tags plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "tags",
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeGenerator,
		Description: "Tag lists, tag pages and the tag cross-reference role",
	}
}

func (p *Plugin) Setup(r plugin.Registrar) error {
	if err := r.RegisterNodeKind(KindTagList, renderUnresolved); err != nil {
		return err
	}
	if err := r.RegisterDirective(DirectiveName, plugin.DirectiveFunc(tagsDirective)); err != nil {
		return err
	}
	if err := r.RegisterRole(RoleName, plugin.RoleFunc(tagRole)); err != nil {
		return err
	}
	r.OnDocumentRead(recordTags)
	r.OnEnvUpdated(p.registerLabels)
	r.OnDocumentResolved(p.renderTagLists)
	r.OnCollectPages(p.collectPages)
	r.OnBuildFinished(p.buildFinished)
	return nil
}

func enabled(env *plugin.Env) bool {
	return env.Config != nil && env.Config.Tags.Create
}

// registerLabels gives every tag page a cross-reference label.
func (p *Plugin) registerLabels(env *plugin.Env) error {
	if !enabled(env) {
		return nil
	}
	for _, t := range Collect(env) {
		label := plugin.Label{Docname: pageName(env, t.Name), Title: t.Name}
		if !env.SetLabel(Label(t.Name), label) {
			env.Warn("duplicate_label", "Tag label already taken", logfields.Page(label.Docname))
		}
	}
	return nil
}

func (p *Plugin) collectPages(env *plugin.Env) ([]*plugin.Page, error) {
	if !enabled(env) {
		return nil, nil
	}
	all := Collect(env)
	pages, err := TagPages(env, all)
	if err != nil {
		return nil, err
	}
	env.Logger.Info("Generated tag pages", logfields.Count(len(all)))
	return pages, nil
}

func (p *Plugin) buildFinished(env *plugin.Env, buildErr error) error {
	if buildErr != nil || !enabled(env) {
		return nil
	}
	return writeData(env, Collect(env))
}
