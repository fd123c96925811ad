// Package gitref decides which git ref source links point at.
package gitref

import (
	"os"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

// EnvVar is the environment variable CI sets to the ref being built.
const EnvVar = "GITHUB_REF"

// Default is used when nothing else names a ref.
const Default = "main"

// Source says where a resolved ref came from.
type Source string

const (
	SourceConfig  Source = "config"
	SourceEnv     Source = "env"
	SourceGit     Source = "git"
	SourceDefault Source = "default"
)

// Resolve returns the ref to use, in order of preference: the configured
// ref, $GITHUB_REF, the branch checked out in the repository containing
// dir, and Default.
func Resolve(configured, dir string) (string, Source) {
	if configured != "" {
		return configured, SourceConfig
	}
	if ref := os.Getenv(EnvVar); ref != "" {
		return ref, SourceEnv
	}
	if ref, err := HeadRef(dir); err == nil && ref != "" {
		return ref, SourceGit
	}
	return Default, SourceDefault
}

// HeadRef returns the short branch name of HEAD in the repository containing
// dir, or the commit hash when HEAD is detached.
func HeadRef(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryGit, "failed to open repository").
			WithContext("path", dir).
			Build()
	}
	ref, err := repo.Head()
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryGit, "failed to read HEAD").
			WithContext("path", dir).
			Build()
	}
	if ref.Name().IsBranch() {
		return ref.Name().Short(), nil
	}
	return ref.Hash().String(), nil
}
