package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/codedoc/cmd/codedoc/commands"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
	"git.home.luguber.info/inful/codedoc/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Logger: slog.Default()}
	parser := kong.Parse(cli,
		kong.Name("codedoc"),
		kong.Description("Convert source files and structured data into Markdown documentation pages."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, cli),
	)

	err := parser.Run(cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
