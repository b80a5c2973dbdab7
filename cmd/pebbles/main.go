package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Serve games over WebSocket"`
	Play     PlayCmd          `cmd:"" help:"Play a local game in the terminal"`
	Client   ClientCmd        `cmd:"" help:"Play on a remote server in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play the program against scripted opponents"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pebbles"),
		kong.Description("Take turns removing pebbles; whoever takes the last one wins"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
