package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/hilite/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func load(t *testing.T, opts ...Option) *Config {
	t.Helper()
	c := New(append([]Option{WithEnvPrefix("")}, opts...)...)
	t.Cleanup(c.Close)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestConfig_Defaults(t *testing.T) {
	c := load(t)

	hl := c.Highlight()
	if hl.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", hl.Theme)
	}
	if hl.MatchTimeout != 50*time.Millisecond {
		t.Errorf("MatchTimeout = %v, want 50ms", hl.MatchTimeout)
	}
	if hl.MaxEmbedDepth != 4 {
		t.Errorf("MaxEmbedDepth = %d, want 4", hl.MaxEmbedDepth)
	}
	if !hl.ChromaFallback {
		t.Error("ChromaFallback = false, want true")
	}
	if len(hl.Extensions) != 0 {
		t.Errorf("Extensions = %v, want empty", hl.Extensions)
	}

	d := c.Display()
	if d.TabWidth != 4 || !d.LineNumbers || d.StateMarkers || !d.StatusLine {
		t.Errorf("Display() = %+v", d)
	}
	if d.Color != "auto" || d.Background {
		t.Errorf("Display() = %+v, want auto color without background", d)
	}
	if c.Logging().Level != logging.LevelWarn {
		t.Errorf("Logging().Level = %v, want WARN", c.Logging().Level)
	}
	if errs := c.ConfigErrors(); len(errs) != 0 {
		t.Errorf("ConfigErrors() = %v, want none", errs)
	}
}

func TestConfig_FilesInPriorityOrder(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "config.toml", `
[highlight]
theme = "monokai"
matchTimeout = "20ms"

[highlight.extensions]
".tpl" = "html"

[display]
tabWidth = 8
`)
	project := writeFile(t, dir, "project.yaml", `
highlight:
  theme: dracula
display:
  lineNumbers: false
`)

	c := load(t, WithFiles(user, project, filepath.Join(dir, "missing.json")))

	hl := c.Highlight()
	if hl.Theme != "dracula" {
		t.Errorf("Theme = %q, want dracula from the later file", hl.Theme)
	}
	if hl.MatchTimeout != 20*time.Millisecond {
		t.Errorf("MatchTimeout = %v, want 20ms", hl.MatchTimeout)
	}
	if hl.Extensions[".tpl"] != "html" {
		t.Errorf("Extensions = %v", hl.Extensions)
	}
	if d := c.Display(); d.TabWidth != 8 || d.LineNumbers {
		t.Errorf("Display() = %+v, want tabWidth 8 without line numbers", d)
	}
}

func TestConfig_EnvironmentAndOverrides(t *testing.T) {
	t.Setenv("HILITE_TEST_THEME", "light")
	t.Setenv("HILITE_TEST_TAB_WIDTH", "2")
	t.Setenv("HILITE_TEST_HIGHLIGHT__CHROMA_FALLBACK", "off")

	dir := t.TempDir()
	file := writeFile(t, dir, "c.json", `{"highlight": {"theme": "solarized-dark", "maxEmbedDepth": 2}}`)

	c := New(
		WithFiles(file),
		WithEnvPrefix("HILITE_TEST_"),
		WithOverrides(map[string]any{"highlight.maxEmbedDepth": int64(1)}),
	)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	hl := c.Highlight()
	if hl.Theme != "light" {
		t.Errorf("Theme = %q, want light from the environment", hl.Theme)
	}
	if hl.ChromaFallback {
		t.Error("ChromaFallback = true, want false from the environment")
	}
	if hl.MaxEmbedDepth != 1 {
		t.Errorf("MaxEmbedDepth = %d, want 1 from overrides", hl.MaxEmbedDepth)
	}
	if c.Display().TabWidth != 2 {
		t.Errorf("TabWidth = %d, want 2", c.Display().TabWidth)
	}
}

func TestConfig_InvalidValuesFallBack(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "c.toml", `
[highlight]
theme = 7
matchTimeout = "soon"
maxEmbedDepth = 99

[display]
tabWidth = 0
lineNumbers = "yes"
color = "sepia"
`)

	c := load(t, WithFiles(file))

	hl := c.Highlight()
	d := c.Display()
	if hl.Theme != "dark" || hl.MatchTimeout != 50*time.Millisecond || hl.MaxEmbedDepth != 4 {
		t.Errorf("Highlight() = %+v, want defaults", hl)
	}
	if d.TabWidth != 4 || !d.LineNumbers || d.Color != "auto" {
		t.Errorf("Display() = %+v, want defaults", d)
	}

	errs := c.ConfigErrors()
	if !errors.Is(errs["highlight.theme"], ErrTypeMismatch) {
		t.Errorf("highlight.theme error = %v, want type mismatch", errs["highlight.theme"])
	}
	if !errors.Is(errs["highlight.maxEmbedDepth"], ErrValidationFailed) {
		t.Errorf("highlight.maxEmbedDepth error = %v, want validation failure", errs["highlight.maxEmbedDepth"])
	}
	if !errors.Is(errs["display.color"], ErrValidationFailed) {
		t.Errorf("display.color error = %v", errs["display.color"])
	}
	if !errors.Is(errs["display.tabWidth"], ErrValidationFailed) {
		t.Errorf("display.tabWidth error = %v", errs["display.tabWidth"])
	}
	for _, path := range []string{"highlight.matchTimeout", "display.lineNumbers"} {
		if errs[path] == nil {
			t.Errorf("missing error for %s", path)
		}
	}
}

func TestConfig_LoadErrorKeepsSettings(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "c.toml", `[highlight]
theme = "monokai"`)

	c := load(t, WithFiles(file))
	writeFile(t, dir, "c.toml", "[highlight\n")

	err := c.Load(context.Background())
	if err == nil {
		t.Fatal("Load() of broken file should fail")
	}
	if c.Highlight().Theme != "monokai" {
		t.Errorf("Theme = %q, want previous settings kept", c.Highlight().Theme)
	}

	bad := New(WithFiles(filepath.Join(dir, "c.ini")))
	if err := bad.Load(context.Background()); err == nil {
		t.Error("Load() of unsupported format should fail")
	}
}

func TestConfig_GetDuration(t *testing.T) {
	c := load(t, WithOverrides(map[string]any{
		"a": "1s",
		"b": int64(250),
		"c": 3 * time.Second,
		"d": true,
	}))

	tests := []struct {
		path    string
		want    time.Duration
		wantErr error
	}{
		{"a", time.Second, nil},
		{"b", 250 * time.Millisecond, nil},
		{"c", 3 * time.Second, nil},
		{"d", 0, ErrTypeMismatch},
		{"e", 0, ErrSettingNotFound},
	}
	for _, tt := range tests {
		got, err := c.GetDuration(tt.path)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetDuration(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("GetDuration(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
		}
	}
}

func TestConfig_Merged(t *testing.T) {
	c := load(t)
	m := c.Merged()
	m["highlight"].(map[string]any)["theme"] = "changed"

	if c.Highlight().Theme != "dark" {
		t.Error("Merged() must return a copy")
	}
}

func TestConfig_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "config.toml", `[highlight]
theme = "dark"`)

	c := load(t, WithFiles(file))
	reloaded := make(chan string, 4)
	c.OnReload(func(c *Config) { reloaded <- c.Highlight().Theme })

	if err := c.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writeFile(t, dir, "config.toml", `[highlight]
theme = "light"`)

	select {
	case theme := <-reloaded:
		if theme != "light" {
			t.Errorf("reloaded theme = %q, want light", theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestConfig_WatchSkipsMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope", "config.toml")

	c := load(t, WithFiles(missing))
	if err := c.Watch(filepath.Join(dir, "theme.toml")); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	c.Close()
}

func TestDefaultUserConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got, want := DefaultUserConfigFile(), filepath.Join(dir, "hilite", "config.toml"); got != want {
		t.Errorf("DefaultUserConfigFile() = %q, want %q", got, want)
	}

	if err := os.MkdirAll(filepath.Join(dir, "hilite"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := writeFile(t, filepath.Join(dir, "hilite"), "config.yaml", "highlight: {}")
	if got := DefaultUserConfigFile(); got != yaml {
		t.Errorf("DefaultUserConfigFile() = %q, want existing %q", got, yaml)
	}
}
