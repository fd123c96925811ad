package markup

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	roleOpen         = regexp.MustCompile("^\\{([A-Za-z0-9][A-Za-z0-9_:.+-]*)\\}(`+)")
	substitutionName = regexp.MustCompile(`^\|([A-Za-z0-9][A-Za-z0-9_-]*)\|`)
)

type roleParser struct{}

// NewRoleParser returns an inline parser for {name}`text` roles.
func NewRoleParser() parser.InlineParser { return roleParser{} }

func (roleParser) Trigger() []byte { return []byte{'{'} }

func (roleParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	m := roleOpen.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}
	name := string(line[m[2]:m[3]])
	fence := line[m[4]:m[5]]

	rest := line[m[1]:]
	// The closing run must be exactly as long as the opening one.
	offset := 0
	for {
		i := bytes.Index(rest[offset:], fence)
		if i < 0 {
			return nil
		}
		end := offset + i
		after := end + len(fence)
		if after < len(rest) && rest[after] == '`' {
			offset = after
			for offset < len(rest) && rest[offset] == '`' {
				offset++
			}
			continue
		}
		content := string(rest[:end])
		if strings.ContainsAny(content, "\r\n") {
			return nil
		}
		block.Advance(m[1] + after)
		return NewRole(name, content)
	}
}

type substitutionParser struct {
	defined func(name string) bool
}

// NewSubstitutionParser returns an inline parser for |name| references.
// Only names accepted by defined are recognised; other text is left alone.
func NewSubstitutionParser(defined func(name string) bool) parser.InlineParser {
	return substitutionParser{defined: defined}
}

func (substitutionParser) Trigger() []byte { return []byte{'|'} }

func (p substitutionParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	if p.defined == nil {
		return nil
	}
	line, _ := block.PeekLine()
	m := substitutionName.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}
	name := string(line[m[2]:m[3]])
	if !p.defined(name) {
		return nil
	}
	block.Advance(m[1])
	return NewSubstitution(name)
}

// SplitExplicitTitle splits "Title <target>" role text. Without the angle
// bracket form, title and target are both the trimmed text.
func SplitExplicitTitle(s string) (title, target string, explicit bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ">") {
		if i := strings.LastIndex(s, "<"); i > 0 && s[i-1] == ' ' {
			title = strings.TrimSpace(s[:i])
			target = strings.TrimSpace(s[i+1 : len(s)-1])
			if title != "" && target != "" {
				return title, target, true
			}
		}
	}
	return s, s, false
}
