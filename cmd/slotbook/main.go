package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/config"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config}"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Tui      cli.TuiCmd      `cmd:"" help:"Open the weekly booking calendar." default:"withargs"`
	Week     cli.WeekCmd     `cmd:"" help:"Print a week and its blocked periods."`
	Serve    cli.ServeCmd    `cmd:"" help:"Run the local save endpoint."`
	Bookings cli.BookingsCmd `cmd:"" help:"List saved bookings."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the database connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly calendar for booking time ranges by dragging"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	configDir, err := config.Dir(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	isTUI := ctx.Selected() == nil || ctx.Selected().Name == "tui"
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Log.Debug,
		ConfigDir: configDir,
		Stderr:    !isTUI,
	}); err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config:    cfg,
		ConfigDir: configDir,
		Out:       os.Stdout,
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}
