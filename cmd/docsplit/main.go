package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsplit/cmd/docsplit/commands"
	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplit/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docsplit"),
		kong.Description("Split an exported Markdown document into a static-site page tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
