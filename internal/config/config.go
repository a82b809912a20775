package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/hilite/internal/config/loader"
	"github.com/dshills/hilite/internal/config/watcher"
	"github.com/dshills/hilite/internal/logging"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "HILITE_"

// maxIncludeDepth bounds nested "@include" directives.
const maxIncludeDepth = 8

// Config holds the merged settings. It is safe for concurrent use.
type Config struct {
	mu sync.RWMutex

	data      map[string]any
	files     []string
	overrides map[string]any
	envPrefix string
	fs        loader.FileSystem
	log       *logging.Logger

	watcher  *watcher.Watcher
	handlers []func(*Config)

	// configErrors holds type and range problems found by the section
	// accessors, first error per path
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithFiles adds configuration files, lowest priority first. Missing files
// are skipped.
func WithFiles(paths ...string) Option {
	return func(c *Config) {
		for _, p := range paths {
			if p != "" {
				c.files = append(c.files, p)
			}
		}
	}
}

// WithOverrides sets values that win over every other source. Keys are
// dot-separated paths such as "highlight.theme".
func WithOverrides(values map[string]any) Option {
	return func(c *Config) {
		for path, v := range values {
			loader.SetPath(c.overrides, path, v)
		}
	}
}

// WithEnvPrefix changes the environment prefix. An empty prefix disables
// environment loading.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithFS sets the file system used to read configuration files.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) {
		if fsys != nil {
			c.fs = fsys
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Config holding only the defaults. Call Load to read the
// configured sources.
func New(opts ...Option) *Config {
	c := &Config{
		data:      defaultConfig(),
		overrides: make(map[string]any),
		envPrefix: EnvPrefix,
		fs:        loader.DefaultFS(),
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("config")
	return c
}

// Load reads every source and replaces the merged settings. On error the
// previous settings are kept.
func (c *Config) Load(ctx context.Context) error {
	merged := defaultConfig()

	for _, path := range c.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		l, err := loader.NewFileLoaderWithFS(c.fs, path)
		if err != nil {
			return err
		}
		data, err := l.LoadWithIncludes(maxIncludeDepth)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		if data == nil {
			c.log.Debug("no config at %s", path)
			continue
		}
		merged = loader.DeepMerge(merged, data)
	}

	if c.envPrefix != "" {
		env, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, env)
	}

	merged = loader.DeepMerge(merged, loader.Clone(c.overrides))

	c.mu.Lock()
	c.data = merged
	c.configErrors = nil
	c.mu.Unlock()
	return nil
}

// Files returns the configuration files in priority order.
func (c *Config) Files() []string {
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// OnReload registers a handler run after a watched file was reloaded.
func (c *Config) OnReload(fn func(*Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, fn)
}

// Watch starts reloading the configuration when one of its files changes.
// extra names further files, such as a theme file, whose changes should
// also trigger the reload handlers.
func (c *Config) Watch(extra ...string) error {
	c.mu.Lock()
	if c.watcher != nil {
		c.mu.Unlock()
		return nil
	}
	w, err := watcher.New(watcher.WithLogger(c.log))
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.watcher = w
	c.mu.Unlock()

	for _, path := range append(c.Files(), extra...) {
		if err := w.Watch(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.log.Debug("not watching %s: %v", path, err)
				continue
			}
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
	w.OnChange(c.handleFileChange)
	return nil
}

// Close stops watching.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
}

// handleFileChange reloads all sources and notifies the handlers. A file
// that fails to parse keeps the previous settings.
func (c *Config) handleFileChange(event watcher.Event) {
	c.log.Info("%s changed (%s), reloading", event.Path, event.Op)
	if err := c.Load(context.Background()); err != nil {
		c.log.Warn("reload failed: %v", err)
		return
	}

	c.mu.RLock()
	handlers := make([]func(*Config), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn(c)
	}
}

// Merged returns a copy of the merged settings.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.data)
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Lookup(c.data, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration and bare integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("%q", val)}
		}
		return d, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringMap returns a table of string values at the given path.
func (c *Config) GetStringMap(path string) (map[string]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "table", Actual: typeName(v)}
	}
	out := make(map[string]string, len(m))
	for k, item := range m {
		s, ok := item.(string)
		if !ok {
			return nil, &TypeError{Path: path + "." + k, Expected: "string", Actual: typeName(item)}
		}
		out[k] = s
	}
	return out, nil
}

// DefaultUserConfigFile returns the user configuration file,
// $XDG_CONFIG_HOME/hilite/config.toml or ~/.config/hilite/config.toml.
// The first of config.toml, config.yaml and config.json that exists wins.
func DefaultUserConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	dir = filepath.Join(dir, "hilite")

	for _, name := range []string{"config.toml", "config.yaml", "config.yml", "config.json"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "config.toml")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"highlight": map[string]any{
			"theme":          "dark",
			"matchTimeout":   "50ms",
			"maxEmbedDepth":  int64(4),
			"chromaFallback": true,
			"extensions":     map[string]any{},
		},
		"display": map[string]any{
			"tabWidth":     int64(4),
			"lineNumbers":  true,
			"stateMarkers": false,
			"statusLine":   true,
			"color":        "auto",
			"background":   false,
		},
		"logging": map[string]any{
			"level": "warn",
		},
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
