package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/hilite/internal/logging"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration.

// HighlightConfig holds the highlighter settings.
type HighlightConfig struct {
	// Theme is a built-in theme name or the path of a theme file.
	Theme string

	// MatchTimeout bounds a single pattern match.
	MatchTimeout time.Duration

	// MaxEmbedDepth bounds nested language embedding.
	MaxEmbedDepth int

	// ChromaFallback resolves unknown names through chroma's lexer table.
	ChromaFallback bool

	// Extensions maps extra extensions or file names to language names.
	Extensions map[string]string
}

// DisplayConfig holds the painter settings.
type DisplayConfig struct {
	// TabWidth is the number of cells a tab advances to.
	TabWidth int

	// LineNumbers shows a line number gutter.
	LineNumbers bool

	// StateMarkers marks lines that end inside a multi-line construct.
	StateMarkers bool

	// StatusLine shows the pager's status line.
	StatusLine bool

	// Color is the color mode of plain output: auto, truecolor, 256, 16
	// or never.
	Color string

	// Background paints the theme background in plain output.
	Background bool
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level logging.Level
}

// Highlight returns the highlighter settings.
func (c *Config) Highlight() HighlightConfig {
	hc := HighlightConfig{
		Theme:          c.getStringOr("highlight.theme", "dark"),
		MatchTimeout:   c.getDurationOr("highlight.matchTimeout", 50*time.Millisecond),
		MaxEmbedDepth:  c.getIntInRange("highlight.maxEmbedDepth", 4, 0, 16),
		ChromaFallback: c.getBoolOr("highlight.chromaFallback", true),
		Extensions:     c.getStringMapOr("highlight.extensions"),
	}
	if strings.TrimSpace(hc.Theme) == "" {
		c.recordConfigError("highlight.theme", &ValidationError{Path: "highlight.theme", Message: "must not be empty", Value: hc.Theme})
		hc.Theme = "dark"
	}
	if hc.MatchTimeout <= 0 {
		c.recordConfigError("highlight.matchTimeout", &ValidationError{Path: "highlight.matchTimeout", Message: "must be positive", Value: hc.MatchTimeout})
		hc.MatchTimeout = 50 * time.Millisecond
	}
	return hc
}

// Display returns the painter settings.
func (c *Config) Display() DisplayConfig {
	dc := DisplayConfig{
		TabWidth:     c.getIntInRange("display.tabWidth", 4, 1, 16),
		LineNumbers:  c.getBoolOr("display.lineNumbers", true),
		StateMarkers: c.getBoolOr("display.stateMarkers", false),
		StatusLine:   c.getBoolOr("display.statusLine", true),
		Color:        strings.ToLower(c.getStringOr("display.color", "auto")),
		Background:   c.getBoolOr("display.background", false),
	}
	switch dc.Color {
	case "auto", "always", "truecolor", "256", "16", "never", "none", "off":
	default:
		c.recordConfigError("display.color", &ValidationError{Path: "display.color", Message: "must be auto, truecolor, 256, 16 or never", Value: dc.Color})
		dc.Color = "auto"
	}
	return dc
}

// Logging returns the logger settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: logging.ParseLevel(c.getStringOr("logging.level", "warn")),
	}
}

// These methods only return the default silently for ErrSettingNotFound.
// Other errors are recorded and also fall back to the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getIntInRange(path string, defaultValue, lo, hi int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	if v < lo || v > hi {
		c.recordConfigError(path, &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("must be between %d and %d", lo, hi),
			Value:   v,
		})
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getStringMapOr(path string) map[string]string {
	v, err := c.GetStringMap(path)
	if err != nil {
		c.recordConfigError(path, err)
		return map[string]string{}
	}
	return v
}

// recordConfigError stores the first error for each path and logs it.
func (c *Config) recordConfigError(path string, err error) {
	if errors.Is(err, ErrSettingNotFound) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
		c.log.Warn("%v, using default", err)
	}
}

// ConfigErrors returns the problems found by the section accessors since
// the last Load.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}
