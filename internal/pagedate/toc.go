package pagedate

import (
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/blogsmith/internal/metadata"
)

type token struct {
	typ  html.TokenType
	tag  string
	href string
	text string
	raw  string
}

// AnnotateTOC prefixes links to dated documents with a toc-date <time>
// element. Only anchors of the form <a ... href="TARGET.html" ...>TEXT</a>
// are considered; everything else in body is kept byte for byte. It returns
// the new body and the number of anchors annotated.
func AnnotateTOC(store *metadata.Store, pagename, body string) (string, int) {
	if body == "" {
		return body, 0
	}
	tokens := tokenize(body)
	pageDir := parentDir(pagename)

	var b strings.Builder
	b.Grow(len(body))
	annotated := 0
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.typ == html.StartTagToken && t.tag == "a" && i+2 < len(tokens) {
			text, end := tokens[i+1], tokens[i+2]
			if text.typ == html.TextToken && text.text != "" &&
				end.typ == html.EndTagToken && end.tag == "a" {
				if doc, ok := linkTarget(t.href); ok {
					if date, found := lookupDate(store, doc, pageDir); found {
						b.WriteString("<span>")
						b.WriteString(Markup(ClassTOC, date, date))
						b.WriteString(t.raw)
						b.WriteString(text.raw)
						b.WriteString(end.raw)
						b.WriteString("</span>")
						annotated++
						i += 2
						continue
					}
				}
			}
		}
		b.WriteString(t.raw)
	}
	return b.String(), annotated
}

func tokenize(body string) []token {
	z := html.NewTokenizer(strings.NewReader(body))
	var tokens []token
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return tokens
		}
		t := token{typ: tt, raw: string(z.Raw())}
		switch tt {
		case html.StartTagToken, html.EndTagToken:
			name, hasAttr := z.TagName()
			t.tag = string(name)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "href" {
					t.href = string(val)
				}
			}
		case html.TextToken:
			t.text = string(z.Text())
		}
		tokens = append(tokens, t)
	}
}

// linkTarget strips ".html" from a bare document-relative href.
func linkTarget(href string) (string, bool) {
	if !strings.HasSuffix(href, ".html") || strings.ContainsAny(href, "?#") {
		return "", false
	}
	doc := strings.TrimSuffix(href, ".html")
	if doc == "" {
		return "", false
	}
	return purePath(doc), true
}

// lookupDate tries doc as written, then relative to the page's directory.
func lookupDate(store *metadata.Store, doc, pageDir string) (string, bool) {
	name := doc
	if !store.Has(name) {
		name = purePath(pageDir + "/" + doc)
	}
	return store.Date(name)
}

func parentDir(pagename string) string {
	p := purePath(pagename)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return "."
}

// purePath drops empty and "." segments without resolving "..".
func purePath(p string) string {
	abs := strings.HasPrefix(p, "/")
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		kept = append(kept, part)
	}
	out := strings.Join(kept, "/")
	if abs {
		return "/" + out
	}
	if out == "" {
		return "."
	}
	return out
}
