package markup

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	directiveInfo = regexp.MustCompile(`^\{([A-Za-z0-9][A-Za-z0-9_:.+-]*)\}\s*(.*)$`)
	optionLine    = regexp.MustCompile(`^:([A-Za-z0-9_-]+):\s*(.*)$`)
)

type directiveTransformer struct{}

// NewDirectiveTransformer converts fenced blocks whose info string is
// "{name} args" into Directive nodes.
func NewDirectiveTransformer() parser.ASTTransformer { return directiveTransformer{} }

func (directiveTransformer) Transform(node *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var fences []*ast.FencedCodeBlock
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fc, ok := n.(*ast.FencedCodeBlock); ok && fc.Info != nil {
			fences = append(fences, fc)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, fc := range fences {
		dir := ParseDirectiveBlock(string(fc.Info.Segment.Value(source)), blockLines(fc, source))
		if dir == nil {
			continue
		}
		parent := fc.Parent()
		parent.ReplaceChild(parent, fc, dir)
	}
}

func blockLines(n ast.Node, source []byte) []string {
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}
	return out
}

// ParseDirectiveBlock builds a Directive from a fence info string and its body
// lines. It returns nil when info does not name a directive.
func ParseDirectiveBlock(info string, lines []string) *Directive {
	m := directiveInfo.FindStringSubmatch(strings.TrimSpace(info))
	if m == nil {
		return nil
	}
	d := &Directive{
		Name:    m[1],
		Args:    strings.TrimSpace(m[2]),
		Options: map[string]string{},
	}

	i := 0
	for ; i < len(lines); i++ {
		om := optionLine.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if om == nil {
			break
		}
		if _, seen := d.Options[om[1]]; !seen {
			d.OptionOrder = append(d.OptionOrder, om[1])
		}
		d.Options[om[1]] = strings.TrimSpace(om[2])
	}
	if i > 0 && i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	d.Content = append([]string(nil), lines[i:]...)
	for len(d.Content) > 0 && strings.TrimSpace(d.Content[len(d.Content)-1]) == "" {
		d.Content = d.Content[:len(d.Content)-1]
	}
	return d
}
