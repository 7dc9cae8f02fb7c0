package main

import (
	"context"

	"github.com/desertthunder/playfetch/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the embedded example configuration to disk so the user
// has a commented starting point. Refuses to clobber an existing file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Edit it to change the output root, default keyword, or downloader path.\n")
	r.writePlainln("Secrets stay out of it: set %s, %s, and %s in %s or the environment.",
		shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret, shared.EnvYouTubeAPIKey, shared.DefaultEnvFile)

	return nil
}
