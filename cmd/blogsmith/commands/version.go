package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogsmith/internal/version"
)

// VersionCmd prints build metadata.
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Println(version.String())
	return nil
}
