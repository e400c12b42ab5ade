package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jask/showcase/internal/carousel"
	"github.com/jask/showcase/internal/config"
	"github.com/jask/showcase/internal/content"
)

// runCLI executes the root command in an isolated home with its own store.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHOWCASE_CONFIG", "")
	t.Setenv("SHOWCASE_DATABASE_PATH", filepath.Join(home, "showcase.db"))
	t.Setenv("SHOWCASE_LOG_LEVEL", "error")
	t.Setenv("SHOWCASE_UI_API_URL", "")
	return home
}

func TestContentGetDefaultsWithoutStore(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "content", "get", "home.title")
	require.NoError(t, err)
	require.Equal(t, content.Default().Home.Title+"\n", out)
}

func TestContentSetThenGet(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "content", "set", "home.title", "Spring", "Launch")
	require.NoError(t, err)

	out, err := runCLI(t, "content", "get", "home.title")
	require.NoError(t, err)
	require.Equal(t, "Spring Launch\n", out)

	_, err = runCLI(t, "content", "set", "detail.cards", "https://a.test/1.png", "https://a.test/2.png")
	require.NoError(t, err)
	out, err = runCLI(t, "content", "get", "detail.cards")
	require.NoError(t, err)
	require.Equal(t, "https://a.test/1.png\nhttps://a.test/2.png\n", out)
}

func TestContentSetRejectsBadURL(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "content", "set", "home.coverImage", "not a url")
	require.Error(t, err)
	require.True(t, errors.Is(err, content.ErrInvalid))
}

func TestContentGetSuggestsField(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "content", "get", "home.titel")
	require.Error(t, err)
	require.True(t, errors.Is(err, content.ErrUnknownField))
	require.Contains(t, err.Error(), `"home.title"`)
}

func TestContentHistoryAndRestore(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "content", "history")
	require.NoError(t, err)
	require.Equal(t, "no revisions stored\n", out)

	_, err = runCLI(t, "content", "set", "home.title", "First")
	require.NoError(t, err)
	_, err = runCLI(t, "content", "set", "home.title", "Second")
	require.NoError(t, err)

	out, err = runCLI(t, "content", "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	out, err = runCLI(t, "content", "history", "--limit", "1")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)

	// Oldest revision is last.
	oldest := strings.Fields(lines[1])[0]
	_, err = runCLI(t, "content", "restore", oldest)
	require.NoError(t, err)

	out, err = runCLI(t, "content", "get", "home.title")
	require.NoError(t, err)
	require.Equal(t, "First\n", out)
}

func TestContentExportYAMLAndImport(t *testing.T) {
	home := isolate(t)

	_, err := runCLI(t, "content", "set", "detail.title", "Gallery")
	require.NoError(t, err)

	path := filepath.Join(home, "site.yaml")
	_, err = runCLI(t, "content", "export", "-o", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	detail, ok := doc["detail"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Gallery", detail["title"])

	edited := strings.Replace(string(raw), "Gallery", "Archive", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	out, err := runCLI(t, "content", "import", path)
	require.NoError(t, err)
	require.Contains(t, out, "detail.title")

	out, err = runCLI(t, "content", "import", path)
	require.NoError(t, err)
	require.Contains(t, out, "unchanged")

	out, err = runCLI(t, "content", "get", "detail.title")
	require.NoError(t, err)
	require.Equal(t, "Archive\n", out)
}

func TestContentResetNeedsConfirmation(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "content", "set", "home.title", "Temporary")
	require.NoError(t, err)

	_, err = runCLI(t, "content", "reset")
	require.Error(t, err)

	_, err = runCLI(t, "content", "reset", "--yes")
	require.NoError(t, err)

	out, err := runCLI(t, "content", "get", "home.title")
	require.NoError(t, err)
	require.Equal(t, content.Default().Home.Title+"\n", out)
}

func TestContentSeed(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "content", "seed")
	require.NoError(t, err)
	require.Equal(t, "built-in document stored\n", out)

	out, err = runCLI(t, "content", "seed")
	require.NoError(t, err)
	require.Equal(t, "a document is already stored\n", out)
}

const recording = `// swipe left past the threshold, then a stray click
{"type": "touchstart", "touches": [{"id": 0, "x": 300}]}
{"type": "touchmove", "touches": [{"id": 0, "x": 180}]}
{"type": "touchend"}
{"type": "click", "index": 1}

// a mouse jitter below the tap epsilon still counts as a tap
{"type": "mousedown", "x": 10}
{"type": "mousemove", "x": 12}
{"type": "mouseup", "x": 12}
{"type": "click", "index": 2}
`

func TestReplay(t *testing.T) {
	var out bytes.Buffer
	err := replay(&out, strings.NewReader(recording), 5, carousel.DefaultGeometry())
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"release offset=-120.0 peak=120.0 focus 0 -> 1",
		"tap 1 suppressed",
		"release offset=2.0 peak=2.0 focus 1 -> 1",
		"tap 2",
		"focus 1 of 5",
		"",
	}, "\n"), out.String())
}

func TestReplayCommand(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "swipe.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(recording), 0o644))

	out, err := runCLI(t, "replay", "--items", "3", path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "focus 1 of 3\n"), out)
}

func TestReplayUnknownEvent(t *testing.T) {
	var out bytes.Buffer
	err := replay(&out, strings.NewReader(`{"type": "wheel"}`), 3, carousel.DefaultGeometry())
	require.Error(t, err)
	require.Contains(t, err.Error(), "event 1")
}

func TestReplayRejectsNegativeItems(t *testing.T) {
	var out bytes.Buffer
	err := replay(&out, strings.NewReader(`{"type": "mousedown", "x": 10}`), -1, carousel.DefaultGeometry())
	require.Error(t, err)
	require.Empty(t, out.String())

	home := isolate(t)
	path := filepath.Join(home, "tap.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(recording), 0o644))
	_, err = runCLI(t, "replay", "-n", "-1", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be negative")
}

func TestConfigInit(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "conf", "showcase.toml")
	t.Setenv("SHOWCASE_CONFIG", path)

	out, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	require.Equal(t, "config written to "+path+"\n", out)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
	require.Equal(t, filepath.Join(home, "showcase.db"), cfg.Database.Path)

	_, err = runCLI(t, "config", "init")
	require.Error(t, err)
	require.Contains(t, err.Error(), "--force")

	_, err = runCLI(t, "config", "init", "--force")
	require.NoError(t, err)
}
