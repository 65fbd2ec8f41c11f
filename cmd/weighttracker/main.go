package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"weighttracker/internal/config"
	"weighttracker/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag

	Serve    ServeCmd    `cmd:"" help:"Run the HTTP server and reminder worker." default:"1"`
	Migrate  MigrateCmd  `cmd:"" help:"Apply database migrations and exit."`
	Progress ProgressCmd `cmd:"" help:"Compute goal progress for the given weights."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("weighttracker"),
		kong.Description("Weight tracking server with goal progress and achievements"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: cfg.LogDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logger: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
