package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/playfetch/internal/downloader"
	"github.com/desertthunder/playfetch/internal/shared"
	"github.com/urfave/cli/v3"
)

// checkResult is one pre-flight requirement and whether this machine meets it.
type checkResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// Check runs every pre-flight requirement a fetch would need and reports
// them one by one instead of failing on the first.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	results := []checkResult{
		r.checkSecrets(cmd.String("env")),
		r.checkDownloader(ctx, config),
		r.checkConfigFile(cmd.String("config")),
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(results, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			mark := "✓"
			if !result.OK {
				mark = "✗"
			}
			r.writePlain("%s %s: %s\n", mark, result.Name, result.Detail)
		}
	}

	failed := 0
	for _, result := range results {
		if !result.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pre-flight checks failed", failed, len(results))
	}
	return nil
}

func (r *Runner) checkSecrets(envPath string) checkResult {
	result := checkResult{Name: "credentials"}
	if _, err := shared.LoadSecrets(envPath); err != nil {
		result.Detail = err.Error()
		return result
	}

	result.OK = true
	result.Detail = fmt.Sprintf("%s, %s, and %s are set",
		shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret, shared.EnvYouTubeAPIKey)
	return result
}

func (r *Runner) checkDownloader(ctx context.Context, config *shared.Config) checkResult {
	result := checkResult{Name: "downloader"}

	tool := r.fetcher
	if tool == nil {
		tool = downloader.New(config.Downloader.Path, config.Downloader.Timeout(), r.logger)
	}

	if err := tool.CheckInstalled(ctx); err != nil {
		result.Detail = err.Error()
		return result
	}

	result.OK = true
	result.Detail = fmt.Sprintf("%s responds", config.Downloader.Path)
	return result
}

// checkConfigFile reports on the optional config file. A missing file is
// fine (defaults apply); an unreadable one is the failure worth surfacing.
func (r *Runner) checkConfigFile(path string) checkResult {
	result := checkResult{Name: "config"}

	if _, err := os.Stat(path); err != nil {
		result.OK = true
		result.Detail = fmt.Sprintf("%s not present, using defaults", path)
		return result
	}

	if _, err := shared.LoadConfig(path); err != nil {
		result.Detail = err.Error()
		return result
	}

	result.OK = true
	result.Detail = fmt.Sprintf("loaded %s", path)
	return result
}
