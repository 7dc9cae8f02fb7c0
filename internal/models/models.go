// package models defines the data model for the playlist archive tool
package models

import (
	"time"
)

// Track is one row of exported metadata: a track name and its artists
// joined into a single comma-separated string.
//
// Rows are immutable once produced by the exporter.
type Track struct {
	Name    string
	Artists string
}

// MatchedTrack pairs a [Track] with the video selected for it.
//
// An empty Link means no acceptable match was found. That is a valid
// terminal state for the row, not an error for the batch.
type MatchedTrack struct {
	Track
	Link  string
	Title string
}

// Matched reports whether a video link was found for this row.
func (m MatchedTrack) Matched() bool {
	return m.Link != ""
}

// Export is the exporter's output: source metadata plus the extracted rows.
//
// Total is the server-reported item count, which can exceed len(Tracks)
// when unparseable items were skipped.
type Export struct {
	ID     string
	Name   string
	Total  int
	Tracks []Track
}

// Archive is the in-memory record for one run: the source title, the
// sanitized folder name, and the ordered rows serialized to CSV.
type Archive struct {
	Name   string
	Folder string
	Rows   []MatchedTrack
}

// Manifest records the outcome of one run, written as manifest.json
// next to the CSV inside the archive folder.
type Manifest struct {
	RunID      string    `json:"run_id"`
	Kind       string    `json:"kind"`
	Source     string    `json:"source"`
	Name       string    `json:"name"`
	Keyword    string    `json:"keyword,omitempty"`
	Total      int       `json:"total_tracks"`
	Matched    int       `json:"matched"`
	Downloaded int       `json:"downloaded"`
	CSVFile    string    `json:"csv_file,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
