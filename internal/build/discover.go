package build

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

// sourceFile is a discovered Markdown document.
type sourceFile struct {
	Docname string
	Path    string
}

// discover walks the source directory for Markdown documents, skipping
// hidden entries, excluded patterns and the templates, static and examples
// directories. Results are sorted by document name.
func discover(cfg *config.Config) ([]sourceFile, error) {
	root := cfg.SourceDir()
	skipDirs := map[string]bool{}
	for _, dir := range append(cfg.StaticDirs(), cfg.TemplatesDir(), cfg.ExamplesDir()) {
		if dir != "" {
			skipDirs[filepath.Clean(dir)] = true
		}
	}

	var files []sourceFile
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if strings.HasPrefix(d.Name(), ".") || excluded(cfg.ExcludePatterns, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDirs[filepath.Clean(p)] {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdownFile(d.Name()) {
			return nil
		}
		files = append(files, sourceFile{
			Docname: strings.TrimSuffix(rel, filepath.Ext(rel)),
			Path:    p,
		})
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to discover source documents").
			WithContext("path", root).
			Build()
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Docname < files[j].Docname })
	return files, nil
}

// excluded reports whether the slash-separated relative path matches one of
// the doublestar patterns.
func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isMarkdownFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}
