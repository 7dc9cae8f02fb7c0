package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/playfetch/internal/models"
	"github.com/desertthunder/playfetch/internal/shared"
	tu "github.com/desertthunder/playfetch/internal/testing"
)

type stubExporter struct {
	export *models.Export
	err    error
	calls  int
}

func (s *stubExporter) Name() string { return "Spotify" }

func (s *stubExporter) ExportPlaylist(ctx context.Context, id string) (*models.Export, error) {
	s.calls++
	return s.export, s.err
}

func (s *stubExporter) ExportAlbum(ctx context.Context, id string) (*models.Export, error) {
	s.calls++
	return s.export, s.err
}

// stubSearcher matches every track to a synthetic video.
type stubSearcher struct {
	keywords []string
	calls    int
}

func (s *stubSearcher) Name() string { return "YouTube" }

func (s *stubSearcher) FindVideo(ctx context.Context, track, artists, keyword string) (*models.MatchedTrack, error) {
	s.calls++
	s.keywords = append(s.keywords, keyword)
	return &models.MatchedTrack{
		Track: models.Track{Name: track, Artists: artists},
		Link:  fmt.Sprintf("https://www.youtube.com/watch?v=vid%d", s.calls),
		Title: track + " (Official)",
	}, nil
}

func (s *stubSearcher) PlaylistTitle(ctx context.Context, id string) (string, error) {
	return "Stub List", nil
}

func (s *stubSearcher) PlaylistEntries(ctx context.Context, id string) ([]models.MatchedTrack, error) {
	return nil, nil
}

type stubTool struct {
	checkErr   error
	checkCalls int
	audio      []string
	playlists  []string
}

func (s *stubTool) CheckInstalled(ctx context.Context) error {
	s.checkCalls++
	return s.checkErr
}

func (s *stubTool) FetchAudio(ctx context.Context, dir, url string) error {
	s.audio = append(s.audio, url)
	return nil
}

func (s *stubTool) FetchPlaylist(ctx context.Context, dir, url string) error {
	s.playlists = append(s.playlists, url)
	return nil
}

func setSecretEnv(t *testing.T) {
	t.Helper()
	t.Setenv(shared.EnvSpotifyClientID, "id")
	t.Setenv(shared.EnvSpotifyClientSecret, "secret")
	t.Setenv(shared.EnvYouTubeAPIKey, "key")
}

func clearSecretEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret, shared.EnvYouTubeAPIKey} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

// newFetchRunner builds a runner with every provider stubbed and archive
// output routed into a temp dir.
func newFetchRunner(t *testing.T) (*Runner, *stubExporter, *stubSearcher, *stubTool, *bytes.Buffer) {
	t.Helper()

	exporter := &stubExporter{export: &models.Export{
		ID:    "pl99",
		Name:  "Evening Mix",
		Total: 2,
		Tracks: []models.Track{
			{Name: "First Song", Artists: "Some Band"},
			{Name: "Second Song", Artists: "Another Band"},
		},
	}}
	searcher := &stubSearcher{}
	tool := &stubTool{}
	output := &bytes.Buffer{}

	config := shared.DefaultConfig()
	config.Output.Root = t.TempDir()

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Logger:   shared.NewLogger(&bytes.Buffer{}),
		Output:   output,
		Exporter: exporter,
		Searcher: searcher,
		Fetcher:  tool,
	})
	return runner, exporter, searcher, tool, output
}

func runApp(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	return newApp(runner).Run(context.Background(), append([]string{"playfetch"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			input := strings.NewReader("")
			exporter := &stubExporter{}
			searcher := &stubSearcher{}
			tool := &stubTool{}

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				Input:    input,
				Exporter: exporter,
				Searcher: searcher,
				Fetcher:  tool,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.input != input {
				t.Error("expected input to be set")
			}
			if runner.exporter != exporter {
				t.Error("expected exporter to be set")
			}
			if runner.searcher != searcher {
				t.Error("expected searcher to be set")
			}
			if runner.fetcher != tool {
				t.Error("expected fetcher to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlainln wraps the line in newlines", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlainln("banner %d", 7); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "\nbanner 7\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 2 {
			t.Fatalf("expected 2 commands, got %d", len(commands))
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"check", "config"} {
			if !names[want] {
				t.Errorf("expected a %q command to be registered", want)
			}
		}
	})
}

func TestFetchCommand(t *testing.T) {
	t.Run("archives a playlist end to end", func(t *testing.T) {
		setSecretEnv(t)
		runner, exporter, searcher, tool, output := newFetchRunner(t)

		err := runApp(t, runner, "https://open.spotify.com/playlist/pl99", "Visualizer")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if exporter.calls != 1 {
			t.Errorf("exporter called %d times, want 1", exporter.calls)
		}
		for _, keyword := range searcher.keywords {
			if keyword != "Visualizer" {
				t.Errorf("keyword = %q, want Visualizer", keyword)
			}
		}
		if len(tool.audio) != 2 {
			t.Errorf("downloader invoked %d times, want 2", len(tool.audio))
		}

		folder := filepath.Join(runner.config.Output.Root, "Evening Mix")
		tu.AssertDirExists(t, folder)
		tu.AssertFileExists(t, filepath.Join(folder, "playlist_with_links.csv"))

		text := output.String()
		if !strings.Contains(text, "Archive Complete") {
			t.Error("expected the summary banner in output")
		}
		if !strings.Contains(text, "Success rate: 2/2 (100.0%)") {
			t.Errorf("expected success rate line, got:\n%s", text)
		}
	})

	t.Run("prompts when no URL argument is given", func(t *testing.T) {
		setSecretEnv(t)
		runner, _, searcher, _, output := newFetchRunner(t)
		runner.input = strings.NewReader("https://open.spotify.com/playlist/pl99 piano cover\n")

		if err := runApp(t, runner); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "Enter a Spotify") {
			t.Error("expected the interactive prompt in output")
		}
		if len(searcher.keywords) == 0 || searcher.keywords[0] != "piano cover" {
			t.Errorf("prompted keyword did not reach the searcher: %v", searcher.keywords)
		}
	})

	t.Run("empty prompt input is an input error", func(t *testing.T) {
		setSecretEnv(t)
		runner, _, _, _, _ := newFetchRunner(t)
		runner.input = strings.NewReader("")

		err := runApp(t, runner)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected error wrapping ErrInvalidInput, got %v", err)
		}
	})

	t.Run("missing credentials fail before anything runs", func(t *testing.T) {
		clearSecretEnv(t)
		runner, exporter, _, tool, _ := newFetchRunner(t)

		err := runApp(t, runner, "https://open.spotify.com/playlist/pl99")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected error wrapping ErrMissingCredentials, got %v", err)
		}

		if tool.checkCalls != 0 || exporter.calls != 0 {
			t.Error("nothing should run when credentials are missing")
		}
	})

	t.Run("missing downloader stops the run", func(t *testing.T) {
		setSecretEnv(t)
		runner, exporter, searcher, tool, _ := newFetchRunner(t)
		tool.checkErr = fmt.Errorf("%w: yt-dlp", shared.ErrToolNotFound)

		err := runApp(t, runner, "https://open.spotify.com/playlist/pl99")
		if !errors.Is(err, shared.ErrToolNotFound) {
			t.Fatalf("expected error wrapping ErrToolNotFound, got %v", err)
		}

		if exporter.calls != 0 || searcher.calls != 0 {
			t.Error("no provider should be called when the downloader is missing")
		}
	})

	t.Run("invalid URL fails before any provider call", func(t *testing.T) {
		setSecretEnv(t)
		runner, exporter, searcher, _, _ := newFetchRunner(t)

		err := runApp(t, runner, "https://example.com/nope")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected error wrapping ErrInvalidInput, got %v", err)
		}

		if exporter.calls != 0 || searcher.calls != 0 {
			t.Error("no provider should be called for an unsupported URL")
		}
	})

	t.Run("youtube playlist URL takes the playlist flow", func(t *testing.T) {
		setSecretEnv(t)
		runner, exporter, _, tool, _ := newFetchRunner(t)

		rawURL := "https://www.youtube.com/playlist?list=PLabc"
		if err := runApp(t, runner, rawURL); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(tool.playlists) != 1 || tool.playlists[0] != rawURL {
			t.Errorf("playlist downloads = %v, want exactly the raw URL", tool.playlists)
		}
		if exporter.calls != 0 {
			t.Error("the exporter has no role in the playlist flow")
		}
	})
}

func TestCheckCommand(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		setSecretEnv(t)
		runner, _, _, _, output := newFetchRunner(t)

		if err := runApp(t, runner, "check"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		text := output.String()
		for _, name := range []string{"credentials", "downloader", "config"} {
			if !strings.Contains(text, "✓ "+name) {
				t.Errorf("expected a passing %s check, got:\n%s", name, text)
			}
		}
	})

	t.Run("reports failures and returns an error", func(t *testing.T) {
		clearSecretEnv(t)
		runner, _, _, tool, output := newFetchRunner(t)
		tool.checkErr = fmt.Errorf("%w: yt-dlp", shared.ErrToolNotFound)

		err := runApp(t, runner, "check")
		if err == nil {
			t.Fatal("expected an error when checks fail")
		}
		if !strings.Contains(err.Error(), "pre-flight checks failed") {
			t.Errorf("unexpected error %v", err)
		}

		text := output.String()
		if !strings.Contains(text, "✗ credentials") || !strings.Contains(text, "✗ downloader") {
			t.Errorf("expected failing checks in output, got:\n%s", text)
		}
	})

	t.Run("json output", func(t *testing.T) {
		setSecretEnv(t)
		runner, _, _, _, output := newFetchRunner(t)

		if err := runApp(t, runner, "check", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var results []checkResult
		if err := json.Unmarshal(output.Bytes(), &results); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 checks, got %d", len(results))
		}
		for _, result := range results {
			if !result.OK {
				t.Errorf("check %q should pass: %s", result.Name, result.Detail)
			}
		}
	})

	t.Run("unreadable config file fails the config check", func(t *testing.T) {
		setSecretEnv(t)
		runner, _, _, _, output := newFetchRunner(t)

		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		err := runApp(t, runner, "check", "-c", path)
		if err == nil {
			t.Fatal("expected an error for invalid config")
		}
		if !strings.Contains(output.String(), "✗ config") {
			t.Errorf("expected a failing config check, got:\n%s", output.String())
		}
	})
}

func TestConfigInitCommand(t *testing.T) {
	t.Run("writes the example file", func(t *testing.T) {
		runner, _, _, _, output := newFetchRunner(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := runApp(t, runner, "config", "init", "-c", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "✓ Wrote") {
			t.Error("expected a confirmation line")
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("created file should load: %v", err)
		}
		if config.Search.Keyword != shared.DefaultConfig().Search.Keyword {
			t.Errorf("created config keyword = %q", config.Search.Keyword)
		}
	})

	t.Run("refuses to overwrite an existing file", func(t *testing.T) {
		runner, _, _, _, _ := newFetchRunner(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := runApp(t, runner, "config", "init", "-c", path); err != nil {
			t.Fatalf("first init should succeed: %v", err)
		}
		if err := runApp(t, runner, "config", "init", "-c", path); err == nil {
			t.Fatal("second init should fail")
		}
	})
}
