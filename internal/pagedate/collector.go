package pagedate

import (
	"git.home.luguber.info/inful/blogsmith/internal/metadata"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// CollectDates records the date declared by doc. A later declaration
// overrides an earlier one; a document without one leaves no entry.
func CollectDates(env *plugin.Env, doc *plugin.Document) error {
	for _, decl := range doc.Declarations {
		if decl.Key == metadata.DateKey {
			env.Metadata.Set(doc.Name, metadata.DateKey, decl.Value)
		}
	}
	return nil
}
