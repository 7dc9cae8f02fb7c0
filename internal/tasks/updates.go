package tasks

import (
	"fmt"

	"github.com/desertthunder/playfetch/internal/models"
	"github.com/desertthunder/playfetch/internal/shared"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase (0 announces the phase)
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced consumers
}

// Operation phase enumeration
type Phase int

const (
	ClassifyInput Phase = iota
	ExportTracks
	SearchVideos
	BuildFolder
	DownloadAudio
	WriteRecords
)

func (p Phase) String() string {
	switch p {
	case ClassifyInput:
		return "classify_input"
	case ExportTracks:
		return "export_tracks"
	case SearchVideos:
		return "search_videos"
	case BuildFolder:
		return "build_folder"
	case DownloadAudio:
		return "download_audio"
	case WriteRecords:
		return "write_records"
	default:
		return ""
	}
}

func classifyUpdate(kind shared.SourceKind) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyInput,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Source classified as %s", kind),
		Data:    kind,
	}
}

func exportStartUpdate(provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTracks,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Exporting tracks from %s...", provider),
	}
}

func exportDoneUpdate(export *models.Export) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %s (%d tracks)", export.Name, len(export.Tracks)),
		Data:    export,
	}
}

func searchStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchVideos,
		Step:    0,
		Total:   total,
		Message: "Searching for videos on YouTube...",
	}
}

func searchTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artists, tr.Name),
	}
}

func searchMissUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: no match", step, total, name),
	}
}

func searchFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func folderUpdate(dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildFolder,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Archive folder ready: %s", dir),
	}
}

func downloadStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAudio,
		Step:    0,
		Total:   total,
		Message: "Downloading audio files...",
	}
}

func downloadTrackUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, name),
	}
}

func downloadFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func writeRecordsUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteRecords,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote track record: %s", path),
	}
}
