// Secret loading from a local untracked .env file.
package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names for the three required secrets.
const (
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvYouTubeAPIKey       = "YOUTUBE_API_KEY"
)

// DefaultEnvFile is the conventional secrets file next to the binary.
const DefaultEnvFile = ".env"

// Secrets holds the credentials required before any network call.
type Secrets struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	YouTubeAPIKey       string
}

// LoadSecrets reads the three required values from the env file at path
// (defaulting to .env), falling back to the process environment. A missing
// file is not an error; a missing value is, and the error names every
// absent variable so the user knows exactly what to set.
func LoadSecrets(path string) (*Secrets, error) {
	if path == "" {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	secrets := &Secrets{
		SpotifyClientID:     os.Getenv(EnvSpotifyClientID),
		SpotifyClientSecret: os.Getenv(EnvSpotifyClientSecret),
		YouTubeAPIKey:       os.Getenv(EnvYouTubeAPIKey),
	}

	var missing []string
	for name, value := range map[string]string{
		EnvSpotifyClientID:     secrets.SpotifyClientID,
		EnvSpotifyClientSecret: secrets.SpotifyClientSecret,
		EnvYouTubeAPIKey:       secrets.YouTubeAPIKey,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s (set in %s or the environment)", ErrMissingCredentials, strings.Join(missing, ", "), path)
	}

	return secrets, nil
}
