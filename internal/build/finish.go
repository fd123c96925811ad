package build

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// BuildInfoFile records what an output directory was built from.
const BuildInfoFile = ".buildinfo"

// BuildInfo is the content of BuildInfoFile.
type BuildInfo struct {
	BuildID   string            `yaml:"build_id"`
	Config    string            `yaml:"config"`
	Documents map[string]string `yaml:"documents"`
}

// copyStatic copies every configured static directory into <output>/_static.
// Missing directories are skipped.
func (b *builder) copyStatic() error {
	dst := filepath.Join(b.env.OutputDir, StaticDir)
	for _, dir := range b.cfg.StaticDirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			b.env.Logger.Debug("Static directory not found, skipping", logfields.Path(dir))
			continue
		}
		if err := copyDir(dir, dst); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy static files").
				WithContext("source", dir).
				WithContext("target", dst).
				Build()
		}
	}
	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		return copyFile(p, target)
	})
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	// #nosec G304 -- src is inside a configured static directory
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sourceFile.Close() }()

	// #nosec G304 -- dst is inside the output directory
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}
	return destFile.Close()
}

// newBuildInfo fingerprints the configuration and every document.
func newBuildInfo(env *plugin.Env) (*BuildInfo, error) {
	cfgData, err := yaml.Marshal(env.Config)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to encode configuration").Build()
	}
	info := &BuildInfo{
		BuildID:   env.BuildID,
		Config:    mdfp.CalculateFingerprintFromParts("", string(cfgData)),
		Documents: make(map[string]string),
	}
	for _, doc := range env.Documents() {
		if doc.Parsed == nil {
			continue
		}
		info.Documents[doc.Name] = mdfp.CalculateFingerprintFromParts(
			string(doc.Parsed.FrontmatterRaw()), string(doc.Parsed.Body()))
	}
	return info, nil
}

func (b *builder) writeBuildInfo() error {
	info, err := newBuildInfo(b.env)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(info)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode build info").Build()
	}
	target := filepath.Join(b.env.OutputDir, BuildInfoFile)
	// #nosec G306 -- build info is public site output
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write build info").
			WithContext("path", target).
			Build()
	}
	return nil
}

// ReadBuildInfo loads the build info of an output directory.
func ReadBuildInfo(outputDir string) (*BuildInfo, error) {
	path := filepath.Join(outputDir, BuildInfoFile)
	// #nosec G304 -- output directory comes from configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read build info").
			WithContext("path", path).
			Build()
	}
	var info BuildInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "failed to parse build info").
			WithContext("path", path).
			Build()
	}
	return &info, nil
}
