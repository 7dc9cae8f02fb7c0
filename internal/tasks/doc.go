// Package tasks orchestrates the playlist-to-archive pipeline with real-time progress reporting.
//
// # Core Operation
//
// [ArchiveEngine.Run] executes the full pipeline for one source URL:
//
//  1. Classify the URL (Spotify playlist, Spotify album, YouTube playlist)
//     without touching the network; anything else aborts immediately.
//  2. Export the track list from the catalog provider, honoring the
//     server-reported total across pages.
//  3. Match each track to a video (track-by-track flows only), pacing
//     search calls with a rate limiter when one is configured.
//  4. Build the archive folder from the sanitized source name.
//  5. Download audio: one downloader invocation per matched link, or a
//     single invocation against the playlist URL for the YouTube flow.
//  6. Write the CSV record and the run manifest into the folder.
//
// # Failure Semantics
//
// Steps 1, 2, and 4 abort the run. Within steps 3 and 5 a failure affects
// only its row: the engine logs a warning, emits a progress update, and
// moves on, so a dead link or an unavailable video never costs the rest of
// the archive. The manifest write is best effort.
//
// # Progress Reporting
//
// All operations use non-blocking channel sends for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, and messages
// for display. Updates use select with default so a slow or absent consumer
// never stalls the pipeline; a Step of zero announces a phase before its
// first unit of work.
//
// # Implementation
//
// [ArchiveEngine] depends on:
//   - [services.Exporter] : catalog track-list reads (Spotify)
//   - [services.Searcher] : video search and playlist reads (YouTube)
//   - [AudioFetcher] : the external downloader binary
package tasks
