package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogsmith/cmd/blogsmith/commands"
	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsmith/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Bind(&commands.Global{}),
		kong.Name("blogsmith"),
		kong.Description("Static blog builder with tags, dated tables of contents and example archives."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := parser.Run(cli)
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, nil)
	os.Exit(adapter.HandleError(err))
}
