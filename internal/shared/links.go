// Utilities for classifying source URLs.
package shared

import (
	"fmt"
	"net/url"
	"strings"
)

// SourceKind identifies which workflow a source URL routes to.
type SourceKind int

const (
	SpotifyPlaylist SourceKind = iota
	SpotifyAlbum
	YouTubePlaylist
)

func (k SourceKind) String() string {
	switch k {
	case SpotifyPlaylist:
		return "spotify_playlist"
	case SpotifyAlbum:
		return "spotify_album"
	case YouTubePlaylist:
		return "youtube_playlist"
	default:
		return ""
	}
}

// ParseSourceURL classifies a raw URL as a Spotify playlist, Spotify album,
// or YouTube playlist and extracts the resource ID.
//
// Classification is by host and path/query matching only; no network call is
// made. Anything unrecognized returns an error wrapping [ErrInvalidInput].
func ParseSourceURL(raw string) (SourceKind, string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, "", fmt.Errorf("%w: no URL provided", ErrInvalidInput)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return 0, "", fmt.Errorf("%w: unparseable URL %q", ErrInvalidInput, trimmed)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case strings.HasSuffix(host, "spotify.com"):
		return parseSpotifyPath(u, trimmed)
	case strings.HasSuffix(host, "youtube.com"), host == "youtu.be":
		id := u.Query().Get("list")
		if id == "" {
			return 0, "", fmt.Errorf("%w: YouTube URL has no list parameter: %q", ErrInvalidInput, trimmed)
		}
		return YouTubePlaylist, id, nil
	default:
		return 0, "", fmt.Errorf("%w: expected a Spotify playlist/album or YouTube playlist URL, got %q", ErrInvalidInput, trimmed)
	}
}

// parseSpotifyPath extracts the resource kind and ID from a Spotify URL path.
//
// Paths look like /playlist/{id} or /album/{id}, possibly with a locale
// prefix such as /intl-fr.
func parseSpotifyPath(u *url.URL, raw string) (SourceKind, string, error) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if i+1 >= len(segments) || segments[i+1] == "" {
			continue
		}
		switch segment {
		case "playlist":
			return SpotifyPlaylist, segments[i+1], nil
		case "album":
			return SpotifyAlbum, segments[i+1], nil
		}
	}
	return 0, "", fmt.Errorf("%w: unsupported Spotify resource (want playlist or album): %q", ErrInvalidInput, raw)
}
