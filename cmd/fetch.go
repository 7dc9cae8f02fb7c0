package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/playfetch/internal/downloader"
	"github.com/desertthunder/playfetch/internal/services"
	"github.com/desertthunder/playfetch/internal/shared"
	"github.com/desertthunder/playfetch/internal/tasks"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// Fetch runs the full pipeline: pre-flight checks, source classification,
// track export, video matching, audio download, and the record files.
//
// The URL and optional keyword come from positional arguments, or from a
// single interactive prompt when no arguments are given.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	secrets, err := shared.LoadSecrets(cmd.String("env"))
	if err != nil {
		return err
	}

	fetcher := r.fetcher
	if fetcher == nil {
		fetcher = downloader.New(config.Downloader.Path, config.Downloader.Timeout(), r.logger)
	}
	if err := fetcher.CheckInstalled(ctx); err != nil {
		return err
	}

	rawURL, keyword, err := r.resolveInput(cmd)
	if err != nil {
		return err
	}

	kind, _, err := shared.ParseSourceURL(rawURL)
	if err != nil {
		return err
	}
	r.logger.Info("starting archive run", "kind", kind, "url", rawURL)

	searcher := r.searcher
	if searcher == nil {
		if searcher, err = services.NewYouTubeService(ctx, secrets.YouTubeAPIKey, r.logger); err != nil {
			return err
		}
	}

	exporter := r.exporter
	if exporter == nil && kind != shared.YouTubePlaylist {
		if exporter, err = services.NewSpotifyService(ctx, secrets.SpotifyClientID, secrets.SpotifyClientSecret, r.logger); err != nil {
			return err
		}
	}

	engine := tasks.NewArchiveEngine(exporter, searcher, fetcher, tasks.EngineOpts{
		Logger:     r.logger,
		OutputRoot: config.Output.Root,
		Keyword:    config.Search.Keyword,
		SearchRate: config.Search.RatePerSec,
	})

	// Progress goroutine renders updates while the engine works
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan bool)
	go r.renderProgress(progressCh, done)

	result, err := engine.Run(ctx, tasks.FetchInput{RawURL: rawURL, Keyword: keyword}, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.printSummary(result)
	return nil
}

// resolveInput returns the source URL and keyword from positional arguments,
// prompting on the runner's input stream when the URL is absent. Everything
// after the URL is the keyword, so multi-word keywords need no quoting.
func (r *Runner) resolveInput(cmd *cli.Command) (string, string, error) {
	if args := cmd.Args().Slice(); len(args) > 0 {
		return args[0], strings.TrimSpace(strings.Join(args[1:], " ")), nil
	}

	r.writePlain("Enter a Spotify playlist/album URL or a YouTube playlist URL,\n")
	r.writePlain("optionally followed by a search keyword (default %q):\n> ", tasks.DefaultKeyword)

	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", "", fmt.Errorf("%w: reading input: %v", shared.ErrInvalidInput, err)
		}
		return "", "", fmt.Errorf("%w: no URL provided", shared.ErrInvalidInput)
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 {
		return "", "", fmt.Errorf("%w: no URL provided", shared.ErrInvalidInput)
	}

	return fields[0], strings.Join(fields[1:], " "), nil
}

// renderProgress consumes engine updates until the channel closes. The
// per-track phases draw a progress bar keyed on the update's step; every
// other phase prints its message as a line.
func (r *Runner) renderProgress(progressCh <-chan tasks.ProgressUpdate, done chan<- bool) {
	var bar *progressbar.ProgressBar
	finish := func() {
		if bar != nil {
			bar.Finish()
			r.writePlain("\n")
			bar = nil
		}
	}

	for update := range progressCh {
		switch update.Phase {
		case tasks.SearchVideos, tasks.DownloadAudio:
			if update.Step == 0 {
				finish()
				if update.Total > 0 {
					bar = r.newProgressBar(update.Total, update.Message)
				} else {
					r.writePlain("%s\n", update.Message)
				}
				continue
			}
			if bar != nil {
				bar.Describe(update.Message)
				bar.Set(update.Step)
			}
		default:
			finish()
			r.writePlain("%s\n", update.Message)
		}
	}

	finish()
	done <- true
}

func (r *Runner) newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(r.output),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
	)
}

// printSummary writes the final report: where the archive landed, the match
// and download rates, and every row that missed or failed.
func (r *Runner) printSummary(result *tasks.FetchResult) {
	r.writePlain("\n")
	r.writePlainHeader("Archive Complete")
	r.writePlain("Folder: %s\n", result.Archive.Folder)
	r.writePlain("Record: %s\n", result.CSVPath)

	if result.Kind != shared.YouTubePlaylist {
		r.writePlain("Matched: %d/%d (%.1f%%)\n", result.MatchedCount, result.TotalTracks, result.MatchRate)
	}
	r.writePlain("Success rate: %d/%d (%.1f%%)\n", result.Downloaded, result.TotalTracks, result.SuccessRate)

	var unmatched []tasks.TrackMatchResult
	for _, match := range result.Matches {
		if !match.Row.Matched() {
			unmatched = append(unmatched, match)
		}
	}

	if len(unmatched) > 0 {
		r.writePlain("\nNo video found for %d tracks:\n", len(unmatched))
		for _, match := range unmatched {
			if match.Error != nil {
				r.writePlain("  - %s - %s (%v)\n", match.Row.Artists, match.Row.Name, match.Error)
			} else {
				r.writePlain("  - %s - %s\n", match.Row.Artists, match.Row.Name)
			}
		}
	}

	if result.FailedCount > 0 {
		r.writePlain("\n%d downloads failed; see the log for details.\n", result.FailedCount)
	}
}
