// YouTube Data API implementation of [Searcher]
//
// Authenticates with an API key; no OAuth flow is needed for search or for
// reading public playlists.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playfetch/internal/models"
	"github.com/desertthunder/playfetch/internal/shared"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// musicCategoryID is YouTube's vendor-defined video category for music.
	// Search results are restricted to it so a track query lands on a song
	// rather than an interview or reaction video.
	musicCategoryID = "10"

	watchURLFormat = "https://www.youtube.com/watch?v=%s"

	entriesPageSize = 50
)

// YouTubeService implements the [Searcher] interface for the YouTube Data API v3.
type YouTubeService struct {
	svc    *youtube.Service
	logger *log.Logger
}

// NewYouTubeService creates a YouTube Data API client authenticated with an
// API key. Extra options are appended after the key, which lets tests point
// the client at a local server.
func NewYouTubeService(ctx context.Context, apiKey string, logger *log.Logger, opts ...option.ClientOption) (*YouTubeService, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	options := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating YouTube client: %v", shared.ErrInvalidConfig, err)
	}

	return &YouTubeService{svc: svc, logger: logger}, nil
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// FindVideo searches for a video matching "{track} {artists} {keyword}",
// restricted to the music category, and takes the first hit. A nil result
// with a nil error means the search came back empty.
func (y *YouTubeService) FindVideo(ctx context.Context, track, artists, keyword string) (*models.MatchedTrack, error) {
	query := strings.TrimSpace(fmt.Sprintf("%s %s %s", track, artists, keyword))

	response, err := y.svc.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		Type("video").
		VideoCategoryId(musicCategoryID).
		MaxResults(1).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: searching for %q: %v", shared.ErrAPIRequest, query, err)
	}

	if len(response.Items) == 0 {
		return nil, nil
	}

	hit := response.Items[0]
	return &models.MatchedTrack{
		Track: models.Track{Name: track, Artists: artists},
		Link:  fmt.Sprintf(watchURLFormat, hit.Id.VideoId),
		Title: hit.Snippet.Title,
	}, nil
}

// PlaylistTitle returns the title of a playlist, or an error if the ID does
// not resolve.
func (y *YouTubeService) PlaylistTitle(ctx context.Context, playlistID string) (string, error) {
	response, err := y.svc.Playlists.List([]string{"snippet"}).
		Context(ctx).
		Id(playlistID).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: fetching playlist %s: %v", shared.ErrAPIRequest, playlistID, err)
	}

	if len(response.Items) == 0 {
		return "", fmt.Errorf("%w: playlist %s not found", shared.ErrAPIRequest, playlistID)
	}

	return response.Items[0].Snippet.Title, nil
}

// PlaylistEntries enumerates the videos in a playlist, paging until the API
// stops returning a next-page token. Entries without a video ID (deleted or
// private videos) are skipped with a warning.
func (y *YouTubeService) PlaylistEntries(ctx context.Context, playlistID string) ([]models.MatchedTrack, error) {
	var entries []models.MatchedTrack
	pageToken := ""

	for {
		call := y.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			Context(ctx).
			PlaylistId(playlistID).
			MaxResults(entriesPageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: listing playlist items for %s: %v", shared.ErrAPIRequest, playlistID, err)
		}

		for _, item := range response.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				y.logger.Warn("skipping playlist entry with no video ID", "title", item.Snippet.Title)
				continue
			}

			entries = append(entries, models.MatchedTrack{
				Track: models.Track{
					Name:    item.Snippet.Title,
					Artists: item.Snippet.VideoOwnerChannelTitle,
				},
				Link:  fmt.Sprintf(watchURLFormat, item.ContentDetails.VideoId),
				Title: item.Snippet.Title,
			})
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return entries, nil
}
