// package formatter renders archive records to CSV and run manifests to JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/playfetch/internal/models"
	"github.com/desertthunder/playfetch/internal/shared"
)

// Fixed names for the files written into every archive folder.
const (
	CSVFileName      = "playlist_with_links.csv"
	ManifestFileName = "manifest.json"
)

// csvHeaders is the stable four-column schema of the archive record file.
var csvHeaders = []string{"Track Name", "Artist Name(s)", "YouTube Link", "YouTube Video Title"}

// ExportToCSV converts archive rows to CSV format with columns: Track Name, Artist Name(s), YouTube Link, YouTube Video Title
//
// Every row is written whether or not it matched; unmatched rows carry empty
// link and title cells so the record stays aligned with the source playlist.
func ExportToCSV(archive *models.Archive) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range archive.Rows {
		record := []string{row.Name, row.Artists, row.Link, row.Title}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteArchiveCSV renders the archive rows and writes playlist_with_links.csv
// into dir, returning the path of the written file.
func WriteArchiveCSV(archive *models.Archive, dir string) (string, error) {
	data, err := ExportToCSV(archive)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, CSVFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", shared.ErrFilesystem, path, err)
	}

	return path, nil
}

// WriteManifest writes the run manifest next to the CSV, returning the path
// of the written file.
func WriteManifest(manifest *models.Manifest, dir string) (string, error) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to generate manifest JSON: %w", err)
	}

	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", shared.ErrFilesystem, path, err)
	}

	return path, nil
}
