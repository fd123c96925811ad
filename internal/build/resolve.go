package build

import (
	"log/slog"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// resolveDocument resolves toctrees and cross references in doc, then fires
// DocumentResolved.
func (b *builder) resolveDocument(doc *plugin.Document) error {
	for _, tree := range collectNodes[*markup.TocTree](doc.Tree) {
		tree.Items = b.tocItems(doc, doc, tree, tree.MaxDepth, map[string]bool{doc.Name: true})
		tree.Resolved = true
	}
	for _, ref := range collectNodes[*markup.PendingXRef](doc.Tree) {
		b.resolveXRef(doc, ref)
	}

	for _, h := range b.hooks.documentResolved {
		if err := h.fn(b.env, doc); err != nil {
			return pluginFailure(h.plugin, "document-resolved", err)
		}
	}
	return nil
}

// tocItems resolves the entries of tree, declared in owner, into items whose
// URLs are relative to page. depth <= 0 means unlimited nesting.
func (b *builder) tocItems(page, owner *plugin.Document, tree *markup.TocTree, depth int, visited map[string]bool) []markup.TocItem {
	var items []markup.TocItem
	for _, entry := range tree.Entries {
		title, target, explicit := markup.SplitExplicitTitle(entry)

		var names []string
		if tree.Glob && !explicit && strings.ContainsAny(target, "*?[") {
			pattern := ResolveDocname(owner.Name, target)
			for _, d := range b.env.Documents() {
				if ok, _ := doublestar.Match(pattern, d.Name); ok && d.Name != owner.Name {
					names = append(names, d.Name)
				}
			}
			if len(names) == 0 {
				b.env.Warn("toctree_glob_empty", "Toctree glob matched no documents",
					logfields.Docname(owner.Name), slog.String("pattern", target))
			}
		} else {
			name := ResolveDocname(owner.Name, target)
			if _, ok := b.env.Doc(name); !ok {
				b.env.Warn("toctree_missing", "Toctree references a missing document",
					logfields.Docname(owner.Name), slog.String("target", target))
				continue
			}
			names = []string{name}
		}

		for _, name := range names {
			item := markup.TocItem{
				Docname: name,
				Title:   b.env.Title(name),
				URL:     plugin.RelativeURL(page.Name, name, ""),
			}
			if explicit {
				item.Title = title
			}
			if depth != 1 && !visited[name] {
				visited[name] = true
				item.Children = b.childItems(page, name, depth-1, visited)
				delete(visited, name)
			}
			items = append(items, item)
		}
	}
	return items
}

// childItems collects the toctree entries of the named document.
func (b *builder) childItems(page *plugin.Document, name string, depth int, visited map[string]bool) []markup.TocItem {
	child, ok := b.env.Doc(name)
	if !ok || child.Tree == nil {
		return nil
	}
	var items []markup.TocItem
	for _, tree := range collectNodes[*markup.TocTree](child.Tree) {
		items = append(items, b.tocItems(page, child, tree, depth, visited)...)
	}
	return items
}

func (b *builder) resolveXRef(doc *plugin.Document, ref *markup.PendingXRef) {
	switch ref.RefType {
	case markup.RefTypeDoc:
		name := ResolveDocname(doc.Name, ref.Target)
		if _, ok := b.env.Doc(name); ok {
			ref.URL = plugin.RelativeURL(doc.Name, name, "")
			if !ref.Explicit {
				ref.Title = b.env.Title(name)
			}
			ref.Resolved = true
		}
	case markup.RefTypeRef:
		if label, ok := b.env.Label(markup.NormalizeLabel(ref.Target)); ok {
			ref.URL = plugin.RelativeURL(doc.Name, label.Docname, label.Anchor)
			if !ref.Explicit {
				ref.Title = label.Title
			}
			ref.Resolved = true
		}
	}
	if !ref.Resolved {
		b.env.Warn("unresolved_reference", "Unresolved cross reference",
			logfields.Docname(doc.Name),
			slog.String("type", ref.RefType),
			slog.String("target", ref.Target))
	}
}

// ResolveDocname resolves a document reference made in document from.
// References starting with "/" are relative to the source root, others to
// the directory of from. A ".md" suffix is ignored.
func ResolveDocname(from, target string) string {
	target = strings.TrimSuffix(strings.TrimSpace(target), ".md")
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(from), target)
}

func labelAttr(name string) slog.Attr {
	return slog.String("label", name)
}
