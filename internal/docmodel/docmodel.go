package docmodel

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsmith/internal/frontmatter"
)

// Declaration is a metadata key/value pair declared by a source document.
type Declaration struct {
	Key   string
	Value string
}

// ParsedDoc represents a source document split into YAML frontmatter and body.
type ParsedDoc struct {
	original []byte
	fmRaw    []byte
	body     []byte
	hadFM    bool
	fields   []frontmatter.Field
}

// Parse parses raw file content into a ParsedDoc.
func Parse(content []byte) (*ParsedDoc, error) {
	fmRaw, body, had, err := frontmatter.Split(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "failed to split frontmatter").Build()
	}

	fields, err := frontmatter.Parse(fmRaw)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "invalid frontmatter").Build()
	}

	doc := &ParsedDoc{
		original: append([]byte(nil), content...),
		body:     append([]byte(nil), body...),
		hadFM:    had,
		fields:   fields,
	}
	if had {
		doc.fmRaw = append([]byte{}, fmRaw...)
	}
	return doc, nil
}

// ParseFile reads a file from disk and parses it into a ParsedDoc.
func ParseFile(path string) (*ParsedDoc, error) {
	// #nosec G304 -- path comes from source discovery.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}

	doc, err := Parse(content)
	if err != nil {
		category := errors.CategoryParse
		if classified, ok := errors.AsClassified(err); ok {
			category = classified.Category()
		}
		return nil, errors.WrapError(err, category, "failed to parse document").
			WithContext("path", path).
			Build()
	}
	return doc, nil
}

// Original returns a copy of the original bytes.
func (d *ParsedDoc) Original() []byte {
	return append([]byte(nil), d.original...)
}

// HadFrontmatter reports whether the original document contained a YAML frontmatter block.
func (d *ParsedDoc) HadFrontmatter() bool {
	return d.hadFM
}

// FrontmatterRaw returns the raw YAML frontmatter bytes (without delimiters).
//
// If the document had no frontmatter, FrontmatterRaw returns nil.
func (d *ParsedDoc) FrontmatterRaw() []byte {
	if !d.hadFM {
		return nil
	}
	return append([]byte{}, d.fmRaw...)
}

// Body returns the Markdown body bytes (frontmatter removed).
func (d *ParsedDoc) Body() []byte {
	return append([]byte(nil), d.body...)
}

// Field returns the decoded frontmatter value for key.
func (d *ParsedDoc) Field(key string) (any, bool) {
	for _, f := range d.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Declarations returns the scalar frontmatter fields as metadata declarations,
// in declaration order. Lists are joined with ", " and maps are skipped.
func (d *ParsedDoc) Declarations() []Declaration {
	out := make([]Declaration, 0, len(d.fields))
	for _, f := range d.fields {
		if _, isMap := f.Value.(map[string]any); isMap {
			continue
		}
		if list, isList := f.Value.([]any); isList {
			out = append(out, Declaration{Key: f.Key, Value: strings.Join(StringList(list), ", ")})
			continue
		}
		out = append(out, Declaration{Key: f.Key, Value: Stringify(f.Value)})
	}
	return out
}

// Stringify renders a decoded YAML scalar as metadata text.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// StringList turns a list value or a comma-separated string into trimmed,
// non-empty entries.
func StringList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range t {
			raw = append(raw, Stringify(item))
		}
	case []string:
		raw = t
	default:
		raw = strings.Split(Stringify(t), ",")
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
