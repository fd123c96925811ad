package markup

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Node kinds added to the goldmark AST.
var (
	KindRole         = ast.NewNodeKind("Role")
	KindSubstitution = ast.NewNodeKind("Substitution")
	KindDirective    = ast.NewNodeKind("Directive")
	KindRawInline    = ast.NewNodeKind("RawInline")
	KindRawBlock     = ast.NewNodeKind("RawBlock")
	KindMeta         = ast.NewNodeKind("Meta")
	KindTocTree      = ast.NewNodeKind("TocTree")
	KindPendingXRef  = ast.NewNodeKind("PendingXRef")
)

// Role is an unexpanded inline role: {name}`text`.
type Role struct {
	ast.BaseInline
	Name    string
	Content string
}

func NewRole(name, text string) *Role { return &Role{Name: name, Content: text} }

func (n *Role) Kind() ast.NodeKind { return KindRole }

func (n *Role) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Content": n.Content}, nil)
}

// Substitution is an unexpanded |name| reference.
type Substitution struct {
	ast.BaseInline
	Name string
}

func NewSubstitution(name string) *Substitution { return &Substitution{Name: name} }

func (n *Substitution) Kind() ast.NodeKind { return KindSubstitution }

func (n *Substitution) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

// Directive is an unexpanded fenced directive block.
type Directive struct {
	ast.BaseBlock
	Name    string
	Args    string
	Options map[string]string
	// OptionOrder lists option keys as written.
	OptionOrder []string
	Content     []string
}

func (n *Directive) Kind() ast.NodeKind { return KindDirective }

func (n *Directive) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":    n.Name,
		"Args":    n.Args,
		"Content": strings.Join(n.Content, "\\n"),
	}, nil)
}

// ContentText returns the directive body joined with newlines.
func (n *Directive) ContentText() string {
	return strings.Join(n.Content, "\n")
}

// RawInline is inline HTML emitted verbatim.
type RawInline struct {
	ast.BaseInline
	HTML string
}

func NewRawInline(html string) *RawInline { return &RawInline{HTML: html} }

func (n *RawInline) Kind() ast.NodeKind { return KindRawInline }

func (n *RawInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": n.HTML}, nil)
}

// RawBlock is block-level HTML emitted verbatim.
type RawBlock struct {
	ast.BaseBlock
	HTML string
}

func NewRawBlock(html string) *RawBlock { return &RawBlock{HTML: html} }

func (n *RawBlock) Kind() ast.NodeKind { return KindRawBlock }

func (n *RawBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": n.HTML}, nil)
}

// Meta is one metadata declaration made inside the document body.
type Meta struct {
	ast.BaseBlock
	Name    string
	Content string
}

func NewMeta(name, content string) *Meta { return &Meta{Name: name, Content: content} }

func (n *Meta) Kind() ast.NodeKind { return KindMeta }

func (n *Meta) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Content": n.Content}, nil)
}

// TocItem is one resolved table-of-contents entry.
type TocItem struct {
	Docname  string
	Title    string
	URL      string
	Children []TocItem
}

// TocTree lists documents. Entries are filled in when the tree is parsed;
// Items once the build resolves them.
type TocTree struct {
	ast.BaseBlock
	Caption  string
	MaxDepth int
	Glob     bool
	Entries  []string
	Items    []TocItem
	Resolved bool
}

func (n *TocTree) Kind() ast.NodeKind { return KindTocTree }

func (n *TocTree) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Caption":  n.Caption,
		"MaxDepth": strconv.Itoa(n.MaxDepth),
		"Entries":  strings.Join(n.Entries, ","),
	}, nil)
}

// Cross-reference types.
const (
	RefTypeDoc = "doc"
	RefTypeRef = "ref"
)

// PendingXRef is a cross reference awaiting resolution.
type PendingXRef struct {
	ast.BaseInline
	RefType  string
	Target   string
	Title    string
	Explicit bool

	Resolved bool
	URL      string
}

func NewPendingXRef(refType, target, title string, explicit bool) *PendingXRef {
	return &PendingXRef{RefType: refType, Target: target, Title: title, Explicit: explicit}
}

func (n *PendingXRef) Kind() ast.NodeKind { return KindPendingXRef }

func (n *PendingXRef) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"RefType": n.RefType,
		"Target":  n.Target,
		"Title":   n.Title,
		"URL":     n.URL,
	}, nil)
}
