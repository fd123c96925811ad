// Package archive packages example projects into downloadable zip files.
package archive

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/flate"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

// DownloadsDir is where archives are written inside the output directory.
const DownloadsDir = "_downloads"

// Result describes one written archive.
type Result struct {
	Name  string
	Path  string
	Files int
}

// PackageExamples writes <outputDir>/_downloads/<name>.zip for every
// top-level directory of examplesDir. Entry names are relative to
// examplesDir; paths matching one of the exclude patterns are skipped.
func PackageExamples(examplesDir, outputDir string, excludes []string) ([]Result, error) {
	entries, err := os.ReadDir(examplesDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read examples directory").
			WithContext("path", examplesDir).
			Build()
	}

	dst := filepath.Join(outputDir, DownloadsDir)
	if err := os.MkdirAll(dst, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create downloads directory").
			WithContext("path", dst).
			Build()
	}

	var results []Result
	for _, e := range entries {
		if !e.IsDir() || excluded(excludes, e.Name()) {
			continue
		}
		target := filepath.Join(dst, e.Name()+".zip")
		n, err := Zip(examplesDir, e.Name(), target, excludes)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Name: e.Name(), Path: target, Files: n})
	}
	return results, nil
}

// Zip archives examplesDir/name into target and returns the number of files
// written.
func Zip(examplesDir, name, target string, excludes []string) (int, error) {
	// #nosec G304 -- target is inside the output directory
	f, err := os.Create(target)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryArchive, "failed to create archive").
			WithContext("path", target).
			Build()
	}

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	n, walkErr := addTree(zw, examplesDir, filepath.Join(examplesDir, name), excludes)
	closeErr := zw.Close()
	if err := f.Close(); closeErr == nil {
		closeErr = err
	}
	if walkErr == nil {
		walkErr = closeErr
	}
	if walkErr != nil {
		_ = os.Remove(target)
		return 0, errors.WrapError(walkErr, errors.CategoryArchive, "failed to write archive").
			WithContext("archive", name).
			WithContext("path", target).
			Build()
	}
	return n, nil
}

func addTree(zw *zip.Writer, base, root string, excludes []string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if p != root && excluded(excludes, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if err := addFile(zw, p, rel, d); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

func addFile(zw *zip.Writer, p, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	// #nosec G304 -- p is inside the examples directory
	src, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	_, err = io.Copy(w, src)
	return err
}

// excluded matches a slash-separated path relative to the examples
// directory against doublestar patterns.
func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
