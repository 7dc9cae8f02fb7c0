// package tasks implements the playlist-to-archive pipeline.
//
// The core abstraction is ArchiveEngine, which classifies a source URL, exports its
// tracks, matches them to videos, and downloads audio into an archive folder.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playfetch/internal/formatter"
	"github.com/desertthunder/playfetch/internal/models"
	"github.com/desertthunder/playfetch/internal/services"
	"github.com/desertthunder/playfetch/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultKeyword seeds video search queries when neither the user nor the
// config supplies one.
const DefaultKeyword = "lyrics"

// TrackMatchResult represents the result of attempting to match a single track.
type TrackMatchResult struct {
	Row   models.MatchedTrack // Row as it will appear in the record file
	Error error               // Error if the search failed (nil for a clean miss)
}

// FetchInput carries the user's request into a run.
type FetchInput struct {
	RawURL  string // Source URL as the user supplied it
	Keyword string // Optional search keyword; empty falls back to the engine default
}

// FetchResult contains all data from a full archive run.
type FetchResult struct {
	Kind         shared.SourceKind  // Source classification
	Archive      *models.Archive    // Folder name and per-track record rows
	Matches      []TrackMatchResult // Individual match results (track-by-track flows)
	TotalTracks  int                // Tracks the source reported
	MatchedCount int                // Rows that ended up with a video link
	Downloaded   int                // Audio files fetched successfully
	FailedCount  int                // Downloads attempted but failed
	CSVPath      string             // Written record file
	ManifestPath string             // Written manifest, empty when the write failed
	MatchRate    float64            // MatchedCount over TotalTracks as a percentage
	SuccessRate  float64            // Downloaded over TotalTracks as a percentage
}

// AudioFetcher drives the external audio downloader.
// This abstraction allows for easier testing and decoupling from the binary on PATH.
type AudioFetcher interface {
	// FetchAudio downloads a single video's audio into dir.
	FetchAudio(ctx context.Context, dir, url string) error

	// FetchPlaylist downloads a whole playlist's audio into dir in one invocation.
	FetchPlaylist(ctx context.Context, dir, url string) error
}

// ArchiveEngine orchestrates the pipeline from source URL to archive folder.
// Work is strictly sequential; per-track failures are logged and skipped so
// one bad row never aborts the run.
type ArchiveEngine struct {
	exporter services.Exporter
	searcher services.Searcher
	fetcher  AudioFetcher
	limiter  *rate.Limiter
	logger   *log.Logger
	root     string
	keyword  string
}

// EngineOpts configures an ArchiveEngine.
type EngineOpts struct {
	Logger     *log.Logger
	OutputRoot string  // Directory archive folders are created under (default ".")
	Keyword    string  // Fallback search keyword (default "lyrics")
	SearchRate float64 // Search requests per second; zero or negative disables pacing
}

// NewArchiveEngine creates an ArchiveEngine with the provided providers and options.
func NewArchiveEngine(exporter services.Exporter, searcher services.Searcher, fetcher AudioFetcher, opts EngineOpts) *ArchiveEngine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	root := opts.OutputRoot
	if root == "" {
		root = "."
	}

	keyword := strings.TrimSpace(opts.Keyword)
	if keyword == "" {
		keyword = DefaultKeyword
	}

	var limiter *rate.Limiter
	if opts.SearchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.SearchRate), 1)
	}

	return &ArchiveEngine{
		exporter: exporter,
		searcher: searcher,
		fetcher:  fetcher,
		limiter:  limiter,
		logger:   logger,
		root:     root,
		keyword:  keyword,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ArchiveEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run executes the full pipeline for a source URL: classify, export tracks,
// match videos, build the archive folder, download audio, write records.
func (e *ArchiveEngine) Run(ctx context.Context, input FetchInput, progress chan<- ProgressUpdate) (*FetchResult, error) {
	kind, id, err := shared.ParseSourceURL(input.RawURL)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, classifyUpdate(kind))

	keyword := strings.TrimSpace(input.Keyword)
	if keyword == "" {
		keyword = e.keyword
	}

	if kind == shared.YouTubePlaylist {
		return e.runYouTube(ctx, progress, input.RawURL, id)
	}
	return e.runSpotify(ctx, progress, kind, id, keyword)
}

// runSpotify handles the track-by-track flow: every exported track is
// searched on YouTube and each matched link is downloaded individually.
func (e *ArchiveEngine) runSpotify(ctx context.Context, progress chan<- ProgressUpdate, kind shared.SourceKind, id, keyword string) (*FetchResult, error) {
	if e.exporter == nil {
		return nil, fmt.Errorf("%w: exporter not initialized", shared.ErrServiceUnavailable)
	}
	if e.searcher == nil {
		return nil, fmt.Errorf("%w: searcher not initialized", shared.ErrServiceUnavailable)
	}
	if e.fetcher == nil {
		return nil, fmt.Errorf("%w: downloader not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, exportStartUpdate(e.exporter.Name()))

	var export *models.Export
	var err error
	if kind == shared.SpotifyAlbum {
		export, err = e.exporter.ExportAlbum(ctx, id)
	} else {
		export, err = e.exporter.ExportPlaylist(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, exportDoneUpdate(export))

	result := &FetchResult{Kind: kind, TotalTracks: export.Total}

	total := len(export.Tracks)
	matches := make([]TrackMatchResult, total)

	e.sendProgress(progress, searchStartUpdate(total))

	for i, track := range export.Tracks {
		e.sendProgress(progress, searchTrackUpdate(i+1, total, track))

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("search pacing interrupted: %w", err)
			}
		}

		match, err := e.searcher.FindVideo(ctx, track.Name, track.Artists, keyword)
		switch {
		case err != nil:
			e.logger.Warn("video search failed", "track", track.Name, "err", err)
			e.sendProgress(progress, searchFailedUpdate(i+1, total, track.Name, err))
			matches[i] = TrackMatchResult{Row: models.MatchedTrack{Track: track}, Error: err}
		case match == nil:
			e.logger.Warn("no video match", "track", track.Name, "artists", track.Artists)
			e.sendProgress(progress, searchMissUpdate(i+1, total, track.Name))
			matches[i] = TrackMatchResult{Row: models.MatchedTrack{Track: track}}
		default:
			matches[i] = TrackMatchResult{Row: *match}
			result.MatchedCount++
		}
	}

	result.Matches = matches

	archive, err := e.buildFolder(progress, export.Name, rowsOf(matches))
	if err != nil {
		return nil, err
	}
	result.Archive = archive

	e.sendProgress(progress, downloadStartUpdate(result.MatchedCount))

	step := 0
	for _, match := range matches {
		if !match.Row.Matched() {
			continue
		}

		step++
		e.sendProgress(progress, downloadTrackUpdate(step, result.MatchedCount, match.Row.Name))

		if err := e.fetcher.FetchAudio(ctx, archive.Folder, match.Row.Link); err != nil {
			e.logger.Warn("audio download failed", "track", match.Row.Name, "err", err)
			e.sendProgress(progress, downloadFailedUpdate(step, result.MatchedCount, match.Row.Name, err))
			result.FailedCount++
			continue
		}

		result.Downloaded++
	}

	if err := e.writeRecords(progress, result, archive, kind, id, keyword); err != nil {
		return result, err
	}

	return result, nil
}

// runYouTube handles the playlist flow: one downloader invocation against
// the playlist URL itself, with the record file built from the playlist's
// entries. Entry enumeration failures degrade to a header-only record
// rather than aborting the download.
func (e *ArchiveEngine) runYouTube(ctx context.Context, progress chan<- ProgressUpdate, rawURL, id string) (*FetchResult, error) {
	if e.searcher == nil {
		return nil, fmt.Errorf("%w: searcher not initialized", shared.ErrServiceUnavailable)
	}
	if e.fetcher == nil {
		return nil, fmt.Errorf("%w: downloader not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, exportStartUpdate(e.searcher.Name()))

	name, err := e.searcher.PlaylistTitle(ctx, id)
	if err != nil {
		e.logger.Warn("could not resolve playlist title, using its ID", "playlist", id, "err", err)
		name = id
	}

	rows, err := e.searcher.PlaylistEntries(ctx, id)
	if err != nil {
		e.logger.Warn("could not enumerate playlist entries, record will be header-only", "playlist", id, "err", err)
		rows = nil
	}

	result := &FetchResult{
		Kind:         shared.YouTubePlaylist,
		TotalTracks:  len(rows),
		MatchedCount: len(rows),
	}

	archive, err := e.buildFolder(progress, name, rows)
	if err != nil {
		return nil, err
	}
	result.Archive = archive

	e.sendProgress(progress, downloadStartUpdate(1))
	e.sendProgress(progress, downloadTrackUpdate(1, 1, name))

	if err := e.fetcher.FetchPlaylist(ctx, archive.Folder, rawURL); err != nil {
		e.logger.Warn("playlist download failed", "playlist", id, "err", err)
		e.sendProgress(progress, downloadFailedUpdate(1, 1, name, err))
	}

	// The tool drives its own enumeration here, so the only honest measure
	// of what landed is the folder itself.
	result.Downloaded = countAudioFiles(archive.Folder)
	if result.TotalTracks > result.Downloaded {
		result.FailedCount = result.TotalTracks - result.Downloaded
	}

	if err := e.writeRecords(progress, result, archive, shared.YouTubePlaylist, id, ""); err != nil {
		return result, err
	}

	return result, nil
}

// buildFolder sanitizes the source name and creates the archive directory
// under the output root. Creation is idempotent; an existing folder is
// reused so reruns land in the same place.
func (e *ArchiveEngine) buildFolder(progress chan<- ProgressUpdate, name string, rows []models.MatchedTrack) (*models.Archive, error) {
	folder := shared.SanitizeName(name)
	if folder == "" {
		return nil, fmt.Errorf("%w: source name %q sanitizes to nothing", shared.ErrFilesystem, name)
	}

	dir := filepath.Join(e.root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating archive folder %s: %v", shared.ErrFilesystem, dir, err)
	}

	e.sendProgress(progress, folderUpdate(dir))

	return &models.Archive{Name: name, Folder: dir, Rows: rows}, nil
}

// writeRecords writes the CSV record and the run manifest, then fills in the
// result's rates. The CSV is required; the manifest is best effort.
func (e *ArchiveEngine) writeRecords(progress chan<- ProgressUpdate, result *FetchResult, archive *models.Archive, kind shared.SourceKind, source, keyword string) error {
	csvPath, err := formatter.WriteArchiveCSV(archive, archive.Folder)
	if err != nil {
		return err
	}
	result.CSVPath = csvPath
	e.sendProgress(progress, writeRecordsUpdate(csvPath))

	manifest := &models.Manifest{
		RunID:      shared.GenerateID(),
		Kind:       kind.String(),
		Source:     source,
		Name:       archive.Name,
		Keyword:    keyword,
		Total:      result.TotalTracks,
		Matched:    result.MatchedCount,
		Downloaded: result.Downloaded,
		CSVFile:    formatter.CSVFileName,
		CreatedAt:  time.Now().UTC(),
	}
	if path, err := formatter.WriteManifest(manifest, archive.Folder); err != nil {
		e.logger.Warn("failed to write run manifest", "err", err)
	} else {
		result.ManifestPath = path
	}

	if result.TotalTracks > 0 {
		result.MatchRate = float64(result.MatchedCount) / float64(result.TotalTracks) * 100
		result.SuccessRate = float64(result.Downloaded) / float64(result.TotalTracks) * 100
	}

	return nil
}

// rowsOf flattens match results into record rows, preserving order.
func rowsOf(matches []TrackMatchResult) []models.MatchedTrack {
	rows := make([]models.MatchedTrack, len(matches))
	for i, match := range matches {
		rows[i] = match.Row
	}
	return rows
}

// countAudioFiles reports how many audio files sit in dir. The container is
// fixed by the downloader's format selection, so counting one extension is
// enough.
func countAudioFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".m4a") {
			count++
		}
	}
	return count
}
