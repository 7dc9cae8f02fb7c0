// package services defines the provider interfaces for exporting track
// lists and matching tracks to videos.
//
// Spotify (catalog export), YouTube (video search and playlists)
package services

import (
	"context"

	"github.com/desertthunder/playfetch/internal/models"
)

// Exporter defines the interface for catalog providers (Spotify) that can read playlists and albums into track lists.
type Exporter interface {
	// ExportPlaylist retrieves a playlist's name and every track in it,
	// walking pagination until the server-reported total is reached.
	ExportPlaylist(ctx context.Context, playlistID string) (*models.Export, error)

	// ExportAlbum retrieves an album's name and every track on it.
	ExportAlbum(ctx context.Context, albumID string) (*models.Export, error)

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}

// Searcher defines the interface for video providers (YouTube) that can match tracks to videos and enumerate video playlists.
type Searcher interface {
	// FindVideo searches for a video matching the track, artists, and
	// search keyword. A nil result with a nil error means no match.
	FindVideo(ctx context.Context, track, artists, keyword string) (*models.MatchedTrack, error)

	// PlaylistTitle returns the title of a video playlist.
	PlaylistTitle(ctx context.Context, playlistID string) (string, error)

	// PlaylistEntries enumerates the videos in a playlist.
	PlaylistEntries(ctx context.Context, playlistID string) ([]models.MatchedTrack, error)

	// Name returns the name of the provider (e.g., "YouTube")
	Name() string
}
