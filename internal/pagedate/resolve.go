package pagedate

import (
	"log/slog"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// RenderPageDates replaces every pagedate marker in doc with the formatted
// date, or removes the markers when doc declares no date.
func RenderPageDates(env *plugin.Env, doc *plugin.Document) error {
	markers := findMarkers(doc.Tree)
	if len(markers) == 0 {
		return nil
	}

	raw, ok := env.Metadata.Date(doc.Name)
	if !ok {
		for _, m := range markers {
			removeMarker(m)
		}
		return nil
	}

	display, parsed := FormatDate(raw)
	if !parsed {
		env.Logger.Debug("Date is not YYYY-MM-DD, using it verbatim",
			logfields.Docname(doc.Name), slog.String("date", raw))
	}
	html := Markup(ClassPage, raw, display)
	for _, m := range markers {
		parent := m.Parent()
		parent.ReplaceChild(parent, m, markup.NewRawInline(html))
		env.Recorder.IncDateAnnotation(metrics.DateSitePage)
	}
	return nil
}

func findMarkers(root ast.Node) []*PageDate {
	if root == nil {
		return nil
	}
	var out []*PageDate
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if m, ok := n.(*PageDate); ok {
				out = append(out, m)
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

// removeMarker deletes m, and its paragraph when nothing else is left in it.
func removeMarker(m *PageDate) {
	parent := m.Parent()
	if parent == nil {
		return
	}
	parent.RemoveChild(parent, m)
	if parent.Kind() == ast.KindParagraph && parent.ChildCount() == 0 && parent.Parent() != nil {
		grand := parent.Parent()
		grand.RemoveChild(grand, parent)
	}
}
