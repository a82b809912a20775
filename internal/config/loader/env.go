package loader

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// EnvLoader loads configuration from environment variables.
//
// Mapped variables go to their configured path. Any other variable with the
// prefix is converted by splitting on "__" for nesting and turning each
// snake_case segment into camelCase: HILITE_HIGHLIGHT__MATCH_TIMEOUT becomes
// highlight.matchTimeout.
type EnvLoader struct {
	prefix  string            // e.g. "HILITE_"
	mapping map[string]string // env var -> config path
	environ func() []string
}

// NewEnvLoader creates a loader with the default mappings.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, DefaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with custom mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// DefaultEnvMapping returns the short names for common settings.
func DefaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "THEME":           "highlight.theme",
		prefix + "MATCH_TIMEOUT":   "highlight.matchTimeout",
		prefix + "MAX_EMBED_DEPTH": "highlight.maxEmbedDepth",
		prefix + "TAB_WIDTH":       "display.tabWidth",
		prefix + "COLOR":           "display.color",
		prefix + "LOG_LEVEL":       "logging.level",
	}
}

// Load reads the environment. Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetPath(config, path, ParseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts HILITE_DISPLAY__TAB_WIDTH to display.tabWidth.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	if name == "" {
		return ""
	}

	segments := strings.Split(name, "__")
	for i, seg := range segments {
		segments[i] = camel(seg)
	}
	return strings.Join(segments, ".")
}

// camel turns TAB_WIDTH into tabWidth.
func camel(s string) string {
	parts := strings.Split(strings.ToLower(s), "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString(strings.ToUpper(p[:1]) + p[1:])
		} else {
			b.WriteString(p)
		}
	}
	return b.String()
}

// ParseValue converts an environment string into the most specific value:
// bool, int64, float64, duration, JSON array or object, else the string.
func ParseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) && gjson.Valid(s) {
		return jsonValue(gjson.Parse(s))
	}

	return s
}
