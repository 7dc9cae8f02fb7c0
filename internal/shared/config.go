package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the optional application configuration loaded from a
// TOML file. Secrets never live here; they come from the .env file.
type Config struct {
	Output     OutputConfig     `toml:"output"`
	Search     SearchConfig     `toml:"search"`
	Downloader DownloaderConfig `toml:"downloader"`
}

// OutputConfig contains filesystem output settings.
type OutputConfig struct {
	Root string `toml:"root"`
}

// SearchConfig contains video search settings.
type SearchConfig struct {
	Keyword    string  `toml:"keyword"`
	RatePerSec float64 `toml:"rate_per_sec"`
}

// DownloaderConfig contains settings for the external downloader binary.
type DownloaderConfig struct {
	Path           string `toml:"path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-invocation downloader timeout.
func (d DownloaderConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("%w: failed to write config file: %v", ErrFilesystem, err)
	}

	return nil
}
