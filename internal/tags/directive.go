package tags

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// KindTagList is the node kind of a tag list.
var KindTagList = ast.NewNodeKind("TagList")

// TagList is the tag line inserted by the tags directive.
type TagList struct {
	ast.BaseBlock
	Tags []string
}

func (n *TagList) Kind() ast.NodeKind { return KindTagList }

func (n *TagList) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Tags": strings.Join(n.Tags, ",")}, nil)
}

// tagsDirective reads tags from the argument and the content.
func tagsDirective(call plugin.DirectiveCall) ([]ast.Node, error) {
	list := &TagList{Tags: splitTags(call.Node.Args)}
	list.Tags = append(list.Tags, splitTags(call.Node.ContentText())...)
	return []ast.Node{list}, nil
}

// tagRole references the page of a tag.
func tagRole(call plugin.RoleCall) ([]ast.Node, error) {
	title, target, explicit := markup.SplitExplicitTitle(call.Text)
	return []ast.Node{markup.NewPendingXRef(markup.RefTypeRef, Label(target), title, explicit)}, nil
}

// renderTagLists replaces the tag lists of doc with their HTML. Tags link to
// their pages when pages are generated.
func (p *Plugin) renderTagLists(env *plugin.Env, doc *plugin.Document) error {
	var lists []*TagList
	_ = ast.Walk(doc.Tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if l, ok := n.(*TagList); ok && entering {
			lists = append(lists, l)
		}
		return ast.WalkContinue, nil
	})
	for _, l := range lists {
		markup.ReplaceNode(l, []ast.Node{markup.NewRawBlock(tagLine(env, doc.Name, l.Tags))})
	}
	return nil
}

func tagLine(env *plugin.Env, docname string, tags []string) string {
	create := env.Config != nil && env.Config.Tags.Create
	links := make([]string, 0, len(tags))
	for _, t := range tags {
		name := html.EscapeString(t)
		if !create {
			links = append(links, `<span class="tag">`+name+`</span>`)
			continue
		}
		href := plugin.RelativeURL(docname, pageName(env, t), "")
		links = append(links, `<a class="reference internal" href="`+html.EscapeString(href)+`"><span class="std std-ref">`+name+`</span></a>`)
	}
	return `<div class="tags"><span>Tags:</span> ` + strings.Join(links, ", ") + "</div>\n"
}

// A tag list still present at render time was never resolved.
func renderUnresolved(_ util.BufWriter, _ []byte, _ ast.Node, _ bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}
