// Package tags indexes documents by tag and generates tag pages.
package tags

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/blogsmith/internal/docmodel"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// LabelPrefix prefixes the cross-reference label of every tag page.
const LabelPrefix = "sphx_tag_"

// FrontmatterKey is the frontmatter field listing a document's tags.
const FrontmatterKey = "tags"

var nonSlug = regexp.MustCompile(`[^\pL\pN]+`)

// Slug returns the file and label name of a tag. Tags with the same slug
// are the same tag.
func Slug(tag string) string {
	return strings.Trim(nonSlug.ReplaceAllString(cases.Lower(language.Und).String(tag), "-"), "-")
}

// Label returns the cross-reference label of a tag page.
func Label(tag string) string {
	return LabelPrefix + Slug(tag)
}

// Tag is one tag and the documents carrying it.
type Tag struct {
	// Name is the spelling first seen in document order.
	Name string
	Slug string
	Docs []string
}

// DocTags returns the tags of doc: frontmatter first, then tag lists in the
// body. Duplicates by slug are dropped.
func DocTags(doc *plugin.Document) []string {
	var raw []string
	if v, ok := doc.Field(FrontmatterKey); ok {
		raw = append(raw, docmodel.StringList(v)...)
	}
	if doc.Tree != nil {
		_ = ast.Walk(doc.Tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if l, ok := n.(*TagList); ok && entering {
				raw = append(raw, l.Tags...)
			}
			return ast.WalkContinue, nil
		})
	}

	seen := map[string]bool{}
	var out []string
	for _, t := range raw {
		t = strings.TrimSpace(t)
		slug := Slug(t)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, t)
	}
	return out
}

// recordTags stores the tags of doc in the metadata store, where they
// outlive the tag list nodes replaced during resolution.
func recordTags(env *plugin.Env, doc *plugin.Document) error {
	if tags := DocTags(doc); len(tags) > 0 {
		env.Metadata.Set(doc.Name, FrontmatterKey, strings.Join(tags, ", "))
	}
	return nil
}

// Collect indexes every document of env by tag. Tags are sorted by slug,
// documents by title then name.
func Collect(env *plugin.Env) []Tag {
	bySlug := map[string]*Tag{}
	for _, doc := range env.Documents() {
		recorded, _ := env.Metadata.Get(doc.Name, FrontmatterKey)
		for _, name := range splitTags(recorded) {
			slug := Slug(name)
			t, ok := bySlug[slug]
			if !ok {
				t = &Tag{Name: name, Slug: slug}
				bySlug[slug] = t
			}
			t.Docs = append(t.Docs, doc.Name)
		}
	}

	out := make([]Tag, 0, len(bySlug))
	for _, slug := range docmodel.SortedKeys(bySlug) {
		t := bySlug[slug]
		sort.SliceStable(t.Docs, func(i, j int) bool {
			ti, tj := env.Title(t.Docs[i]), env.Title(t.Docs[j])
			if ti != tj {
				return ti < tj
			}
			return t.Docs[i] < t.Docs[j]
		})
		out = append(out, *t)
	}
	return out
}

// splitTags splits a comma or newline separated tag list.
func splitTags(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
