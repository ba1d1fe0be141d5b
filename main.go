package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/Yamashou/uibindgen/internal/log"
)

const version = "0.1.0"

// CLI is the command line of uibindgen. Running it without a command
// generates.
type CLI struct {
	Config   string           `help:"Config file. Searched for upwards from the working directory when empty." type:"path"`
	LogLevel string           `help:"Log level." enum:"debug,info,warn,error" default:"info"`
	Version  kong.VersionFlag `help:"Print the version and exit."`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate binding code for the configured packages."`
	Init     InitCmd     `cmd:"" help:"Write a config file template."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("uibindgen"),
		kong.Description("Attribute-driven UI binding generator"),
		kong.UsageOnError(),
		kong.Vars{"version": "uibindgen v" + version},
	)

	logger := log.SetupLogger(cli.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(logger)

	err := kctx.Run(&cli)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
