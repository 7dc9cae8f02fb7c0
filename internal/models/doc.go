// Package models defines the domain entities for the playfetch archive pipeline.
//
// All types are plain in-memory structs threaded through the pipeline as
// arguments and return values:
//
//   - [Track] : one song's metadata extracted from a playlist or album
//   - [MatchedTrack] : a track plus the (link, title) pair selected for it
//   - [Export] : the exporter's output before matching
//   - [Archive] : the per-run record serialized to the audit CSV
//   - [Manifest] : the per-run outcome written as manifest.json
//
// Nothing here persists beyond a single run. There is no database and no
// cross-run state; the CSV, the manifest, and the downloaded media files are
// the only outputs.
package models
