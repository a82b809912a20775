package theme

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/hilite/internal/config/loader"
)

// maxBaseDepth bounds chains of themes extending other themes.
const maxBaseDepth = 4

// LoadFile reads a theme file from the OS file system.
//
// The file holds color keys either at the top level or under a "colors"
// table. Nested tables are joined with dots, so [colors.string] escape =
// "#fff" sets "string.escape". A top level "name" names the theme and
// "base" names a built-in theme or another file (relative to this one)
// whose colors are used for keys the file leaves out.
func LoadFile(path string) (Theme, error) {
	return LoadFileFS(loader.DefaultFS(), path)
}

// LoadFileFS reads a theme file from fsys.
func LoadFileFS(fsys loader.FileSystem, path string) (Theme, error) {
	return loadFile(fsys, path, maxBaseDepth)
}

func loadFile(fsys loader.FileSystem, path string, depth int) (Theme, error) {
	if depth < 0 {
		return Theme{}, fmt.Errorf("%s: %w", path, ErrInheritanceTooDeep)
	}

	l, err := loader.NewFileLoaderWithFS(fsys, path)
	if err != nil {
		if errors.Is(err, loader.ErrUnsupportedFormat) {
			return Theme{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
		}
		return Theme{}, err
	}
	data, err := l.Load()
	if err != nil {
		return Theme{}, fmt.Errorf("loading theme: %w", err)
	}
	if data == nil {
		return Theme{}, fmt.Errorf("theme file %s not found: %w", path, ErrUnknownTheme)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if v, ok := data["name"].(string); ok && v != "" {
		name = v
	}

	colors := make(map[string]string)
	if base, ok := data["base"].(string); ok && base != "" {
		parent, err := resolveBase(fsys, path, base, depth)
		if err != nil {
			return Theme{}, err
		}
		colors = parent.Colors
	}

	section, top := data, true
	if c, ok := data["colors"].(map[string]any); ok {
		section, top = c, false
	}
	for key, value := range Flatten(section) {
		if top && (key == "name" || key == "base") {
			continue
		}
		colors[key] = value
	}

	return Theme{Name: name, Colors: colors}, nil
}

func resolveBase(fsys loader.FileSystem, path, base string, depth int) (Theme, error) {
	if t, ok := Builtin(base); ok {
		return t, nil
	}
	if !filepath.IsAbs(base) {
		base = filepath.Join(filepath.Dir(path), base)
	}
	t, err := loadFile(fsys, base, depth-1)
	if err != nil {
		return Theme{}, fmt.Errorf("base of %s: %w", path, err)
	}
	return t, nil
}

// Flatten turns nested tables into dotted keys. Non-string values are
// formatted with fmt so the style registry reports them as invalid colors.
func Flatten(data map[string]any) map[string]string {
	out := make(map[string]string)
	flatten("", data, out)
	return out
}

func flatten(prefix string, data map[string]any, out map[string]string) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch v := data[k].(type) {
		case map[string]any:
			flatten(full, v, out)
		case string:
			out[full] = v
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
