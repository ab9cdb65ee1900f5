package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/commander/pkg/color"
	"github.com/arthur-debert/commander/pkg/commander"
	"github.com/arthur-debert/commander/pkg/config"
	"github.com/arthur-debert/commander/pkg/dispatcher"
	"github.com/arthur-debert/commander/pkg/logging"

	// Bundled commands register themselves from init()
	_ "github.com/arthur-debert/commander/pkg/commands/example"
)

func main() {
	cfg, err := config.Load(config.Options{Path: os.Getenv("COMMANDER_CONFIG")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.SetupLogger(cfg.Log.Verbosity, logging.Options{File: cfg.Log.File})

	commander.Main(cfg.Commands.Dir,
		dispatcher.WithResolver(color.NewResolver(cfg.Colors, os.Stdout)),
	)
}
