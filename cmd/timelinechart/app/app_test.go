package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tlerrors "timelinechart/pkg/errors"
)

const sampleTimeline = `{
  "type_names": {"x": "Committee", "y": "Board"},
  "type_order": ["x", "y"],
  "events": [
    {"group": "x", "id": "a", "name": "Alpha", "link": "/a", "time": 978307200},
    {"group": "y", "id": "b", "name": "Beta", "link": "/b", "time": 1104537600, "endTime": 1167609600},
    {"group": "x", "id": "c", "name": "Gamma", "link": "/c", "time": 1262304000, "endTime": -1}
  ]
}`

func testApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	nop := zerolog.Nop()
	out := &bytes.Buffer{}
	return &App{
		version: "test",
		commit:  "abc123",
		date:    "today",
		config:  &Config{LogOutput: "discard"},
		logger:  &nop,
		out:     out,
	}, out
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeline.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleTimeline), 0o600))
	return path
}

func TestGetOutputFilename(t *testing.T) {
	tests := []struct {
		data, output, want string
	}{
		{"timeline.json", "", "timeline.svg"},
		{"/data/history.yaml", "", "history.svg"},
		{"https://example.com/material/timeline.json?v=2", "", "timeline.svg"},
		{"https://example.com/", "", "example.svg"},
		{"timeline.json", "custom.svg", "custom.svg"},
		{"timeline.json", "-", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.data+"|"+tt.output, func(t *testing.T) {
			assert.Equal(t, tt.want, getOutputFilename(tt.data, tt.output))
		})
	}
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats("zoom", "400, 150,2", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{400, 150, 2}, got)

	got, err = parseFloats("pan", "", 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseFloats("pan", "1,2,3", 2)
	assert.True(t, tlerrors.IsValidationError(err))

	_, err = parseFloats("pan", "1,x", 2)
	assert.True(t, tlerrors.IsValidationError(err))
}

func TestInitialVisibility(t *testing.T) {
	got := initialVisibility(map[string]bool{".type_committee": false, "x": true}, []string{"x", "y"})
	assert.Equal(t, map[string]bool{".type_committee": false, "x": false, "y": false}, got)
}

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default", Config{}, "info"},
		{"verbose", Config{Verbose: true}, "debug"},
		{"quiet", Config{Quiet: true}, "warn"},
		{"both", Config{Verbose: true, Quiet: true}, "warn"},
		{"explicit wins", Config{Verbose: true, LogLevel: "error"}, "error"},
		{"invalid", Config{LogLevel: "loud"}, "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}

func TestRenderCommand(t *testing.T) {
	a, out := testApp(t)
	data := writeSample(t)
	dir := t.TempDir()
	svg := filepath.Join(dir, "out.svg")
	legend := filepath.Join(dir, "legend.html")

	err := a.Execute(context.Background(), []string{
		"render", "--data", data, "--output", svg, "--legend-output", legend,
		"--hide", "y", "--zoom", "100,100,2", "--pan", "10,0",
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<svg")
	assert.Contains(t, string(raw), `class="event"`)
	assert.Contains(t, string(raw), "fade_x")

	raw, err = os.ReadFile(legend)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Committee")
	assert.Contains(t, string(raw), "Board")

	assert.Contains(t, out.String(), "Rendered 3 events in 2 categories to "+svg)
}

func TestRenderCommandToStdout(t *testing.T) {
	a, out := testApp(t)
	err := a.Execute(context.Background(), []string{"render", "--data", writeSample(t), "--output", "-"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<?xml")
	assert.NotContains(t, out.String(), "Rendered")
}

func TestRenderCommandErrors(t *testing.T) {
	a, _ := testApp(t)
	err := a.Execute(context.Background(), []string{"render"})
	assert.True(t, tlerrors.IsValidationError(err))

	err = a.Execute(context.Background(), []string{"render", "--data", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.True(t, tlerrors.IsLoadError(err))

	err = a.Execute(context.Background(), []string{"render", "--data", writeSample(t), "--zoom", "1,2"})
	assert.True(t, tlerrors.IsValidationError(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(tlerrors.NewValidationError("zoom", "1,2", "expected 3 comma separated numbers")))
	assert.Equal(t, 3, exitCode(fmt.Errorf("loading timeline: %w", tlerrors.NewLoadError("t.json", tlerrors.ErrEmpty))))
	assert.Equal(t, 1, exitCode(tlerrors.New("boom")))
}

func TestVersionCommand(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.Execute(context.Background(), []string{"version"}))
	assert.Contains(t, out.String(), "timelinechart test")
	assert.Contains(t, out.String(), "abc123")
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TIMELINE_PORT", "9001")
	t.Setenv("TIMELINE_DATA", "material/timeline.json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "material/timeline.json", cfg.Data)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: History\nport: 7000\n"), 0o600))
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TIMELINE_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "History", cfg.Title)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, path, cfg.ConfigFile)

	t.Setenv("TIMELINE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadConfig()
	assert.Error(t, err)
}
