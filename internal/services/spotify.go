// Spotify catalog implementation of [Exporter]
//
// Uses the client-credentials grant, which covers public catalog reads
// without a user login.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playfetch/internal/models"
	"github.com/desertthunder/playfetch/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// Maximum page sizes the Web API accepts for the two endpoints.
	playlistPageSize = 100
	albumPageSize    = 50
)

// SpotifyService implements the [Exporter] interface for the Spotify Web API.
type SpotifyService struct {
	client *spotify.Client
	logger *log.Logger
}

// NewSpotifyService exchanges the client ID and secret for an app token and
// returns an authenticated catalog client. A rejected exchange surfaces as
// [shared.ErrAuthFailed].
func NewSpotifyService(ctx context.Context, clientID, clientSecret string, logger *log.Logger) (*SpotifyService, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return NewSpotifyServiceWithClient(spotify.New(httpClient), logger), nil
}

// NewSpotifyServiceWithClient wraps an already-constructed [spotify.Client].
// Tests use this to inject a client backed by a stub transport.
func NewSpotifyServiceWithClient(client *spotify.Client, logger *log.Logger) *SpotifyService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SpotifyService{client: client, logger: logger}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// ExportPlaylist retrieves a playlist's name and every track in it.
//
// The playlist endpoint reports the authoritative track total; items are
// then paged in chunks of 100 until that total is reached. Items without
// track data (removed or local files) are skipped with a warning.
func (s *SpotifyService) ExportPlaylist(ctx context.Context, playlistID string) (*models.Export, error) {
	playlist, err := s.client.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching playlist %s: %v", shared.ErrAPIRequest, playlistID, err)
	}

	export := &models.Export{
		ID:    playlistID,
		Name:  playlist.Name,
		Total: int(playlist.Tracks.Total),
	}

	for offset := 0; offset < export.Total; {
		page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
			spotify.Limit(playlistPageSize), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("%w: fetching playlist items at offset %d: %v", shared.ErrAPIRequest, offset, err)
		}

		// An empty page before reaching the total means the playlist
		// shrank mid-walk; stop rather than loop forever.
		if len(page.Items) == 0 {
			break
		}

		for i, item := range page.Items {
			track := item.Track.Track
			if track == nil {
				s.logger.Warn("skipping playlist item with no track data", "position", offset+i)
				continue
			}

			export.Tracks = append(export.Tracks, models.Track{
				Name:    track.Name,
				Artists: joinArtists(track.Artists),
			})
		}

		offset += len(page.Items)
	}

	return export, nil
}

// ExportAlbum retrieves an album's name and every track on it, paged in
// chunks of 50.
func (s *SpotifyService) ExportAlbum(ctx context.Context, albumID string) (*models.Export, error) {
	album, err := s.client.GetAlbum(ctx, spotify.ID(albumID))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching album %s: %v", shared.ErrAPIRequest, albumID, err)
	}

	export := &models.Export{
		ID:    albumID,
		Name:  album.Name,
		Total: int(album.Tracks.Total),
	}

	for offset := 0; offset < export.Total; {
		page, err := s.client.GetAlbumTracks(ctx, spotify.ID(albumID),
			spotify.Limit(albumPageSize), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("%w: fetching album tracks at offset %d: %v", shared.ErrAPIRequest, offset, err)
		}

		if len(page.Tracks) == 0 {
			break
		}

		for _, track := range page.Tracks {
			export.Tracks = append(export.Tracks, models.Track{
				Name:    track.Name,
				Artists: joinArtists(track.Artists),
			})
		}

		offset += len(page.Tracks)
	}

	return export, nil
}

// joinArtists flattens an artist list into the comma-separated form used in
// search queries and CSV rows.
func joinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, artist := range artists {
		names[i] = artist.Name
	}
	return strings.Join(names, ", ")
}
