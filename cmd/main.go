package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotdash/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	shared.LoadDotenv("")

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  openStore(config, logger),
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "spotdash",
		Usage:    "Spotify listening dashboard & library tools",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNoSession) {
			logger.Error("no active session", "hint", "run 'spotdash login'")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
