package pagedate

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// RoleMarkup renders the date role text: "2025-08-06", or a literal with an
// explicit strftime format such as "06/08/2025<%d/%m/%Y>".
func RoleMarkup(text string) (string, bool) {
	literal, format := splitFormat(strings.TrimSpace(text))
	display, ok := FormatDateAs(literal, format)
	return Markup(ClassPage, literal, display), ok
}

func splitFormat(text string) (literal, format string) {
	if !strings.HasSuffix(text, ">") {
		return text, ""
	}
	i := strings.LastIndex(text, "<")
	if i <= 0 {
		return text, ""
	}
	return strings.TrimSpace(text[:i]), text[i+1 : len(text)-1]
}

func dateRole(call plugin.RoleCall) ([]ast.Node, error) {
	html, ok := RoleMarkup(call.Text)
	if !ok && call.Env != nil {
		call.Env.Logger.Debug("Unparseable date role literal, using it verbatim",
			logfields.Role(call.Name), logfields.Docname(docName(call.Doc)))
	}
	if call.Env != nil {
		call.Env.Recorder.IncDateAnnotation(metrics.DateSiteRole)
	}
	return []ast.Node{markup.NewRawInline(html)}, nil
}

func docName(doc *plugin.Document) string {
	if doc == nil {
		return ""
	}
	return doc.Name
}
