// Package services defines the [Exporter] and [Searcher] interfaces for
// catalog and video providers and implements them for Spotify and YouTube.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the OAuth2 client-credentials grant,
// which covers public catalog reads (playlists, albums) without a user
// login. Paginated endpoints are walked in maximum-size pages until the
// server-reported track total is reached; items the API returns without
// track data are skipped with a warning rather than aborting the export.
//
// # YouTube Implementation
//
// [YouTubeService] wraps the YouTube Data API v3 with an API key. Video
// search is restricted to YouTube's music category and takes the first hit.
// An empty result set means no match and is reported as a nil result, not an
// error, so callers can tell "nothing found" apart from "request failed".
//
// # Error Handling
//
// Provider failures wrap typed errors from the shared package:
//   - [shared.ErrAuthFailed] : the credential exchange was rejected
//   - [shared.ErrAPIRequest] : an API call failed; batch phases log and skip
//     the affected row instead of aborting the run
package services
