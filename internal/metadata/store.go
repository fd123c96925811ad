// Package metadata holds per-document metadata declared during a build.
//
// A Store is written while documents are read and only read afterwards;
// it performs no locking.
package metadata

import "sort"

// DateKey is the metadata key carrying a document's publication date.
const DateKey = "date"

// Store maps document identifiers to their declared key/value metadata.
type Store struct {
	docs map[string]map[string]string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{docs: make(map[string]map[string]string)}
}

// Set records value under key for docname, replacing any earlier value.
func (s *Store) Set(docname, key, value string) {
	m, ok := s.docs[docname]
	if !ok {
		m = make(map[string]string)
		s.docs[docname] = m
	}
	m[key] = value
}

// Get returns the value of key for docname.
func (s *Store) Get(docname, key string) (string, bool) {
	m, ok := s.docs[docname]
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// Date returns the non-empty date declared by docname.
func (s *Store) Date(docname string) (string, bool) {
	v, ok := s.Get(docname, DateKey)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether any metadata exists for docname.
func (s *Store) Has(docname string) bool {
	return len(s.docs[docname]) > 0
}

// Doc returns a copy of docname's metadata.
func (s *Store) Doc(docname string) map[string]string {
	m := s.docs[docname]
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Docnames returns the identifiers with metadata, sorted.
func (s *Store) Docnames() []string {
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
