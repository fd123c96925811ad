package docmodel

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleFromName derives a display title from a document name:
// "posts/web-api_intro" becomes "Web Api Intro".
func TitleFromName(name string) string {
	base := path.Base(name)
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(strings.Join(strings.Fields(base), " "))
}
