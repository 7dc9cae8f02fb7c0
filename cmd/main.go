package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playfetch/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("PLAYFETCH_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("ignoring unreadable config.toml", "err", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// newApp assembles the command tree. The root action is the fetch pipeline;
// management commands hang off it as subcommands.
func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playfetch",
		Usage:     "Turn a Spotify or YouTube playlist into a folder of audio files",
		UsageText: "playfetch [options] [url] [keyword...]",
		Version:   "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Path to the secrets file",
				Value: shared.DefaultEnvFile,
			},
		},
		Commands: runner.register(),
		Action:   runner.Fetch,
	}
}
