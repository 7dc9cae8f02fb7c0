// package downloader shells out to yt-dlp for audio retrieval.
//
// The tool is an external binary the user installs; nothing here bundles or
// self-installs it. Every invocation runs inside the archive folder so the
// output template resolves relative to it.
package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playfetch/internal/shared"
)

const (
	defaultPath    = "yt-dlp"
	defaultTimeout = 10 * time.Minute

	// Audio-only selection pinned to one container so every archive run
	// produces the same file type.
	audioFormat    = "bestaudio[ext=m4a]"
	outputTemplate = "%(title)s.%(ext)s"
)

// Downloader wraps the yt-dlp binary with a fixed audio format and a
// per-invocation timeout.
type Downloader struct {
	path    string
	timeout time.Duration
	logger  *log.Logger
}

// New builds a Downloader around the binary at path. Zero values fall back
// to "yt-dlp" on PATH and a 10 minute per-invocation timeout.
func New(path string, timeout time.Duration, logger *log.Logger) *Downloader {
	if path == "" {
		path = defaultPath
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Downloader{path: path, timeout: timeout, logger: logger}
}

// CheckInstalled verifies the binary responds to --version. A failure is
// [shared.ErrToolNotFound], which aborts the run before any track work.
func (d *Downloader) CheckInstalled(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, d.path, "--version").Output()
	if err != nil {
		return fmt.Errorf("%w: %s (install it and ensure it is on PATH)", shared.ErrToolNotFound, d.path)
	}

	d.logger.Debug("downloader available", "version", strings.TrimSpace(string(out)))
	return nil
}

// FetchAudio downloads the audio of a single video into dir. The invocation
// is pinned to one video even when the link carries playlist context.
func (d *Downloader) FetchAudio(ctx context.Context, dir, url string) error {
	return d.run(ctx, dir, []string{"-f", audioFormat, "--output", outputTemplate, "--no-playlist", url})
}

// FetchPlaylist downloads the audio of every video in a playlist URL into
// dir with a single invocation, letting the tool drive its own enumeration.
func (d *Downloader) FetchPlaylist(ctx context.Context, dir, url string) error {
	return d.run(ctx, dir, []string{"-f", audioFormat, "--output", outputTemplate, "--yes-playlist", url})
}

func (d *Downloader) run(ctx context.Context, dir string, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.path, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.logger.Debug("running downloader", "args", args, "dir", dir)

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: timed out after %s", shared.ErrToolFailed, d.timeout)
		}
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", shared.ErrToolFailed, msg)
		}
		return fmt.Errorf("%w: %v", shared.ErrToolFailed, err)
	}

	return nil
}

// lastLine returns the final non-empty line of output, which is where
// yt-dlp puts its ERROR summary.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
