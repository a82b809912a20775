package highlight

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry holds language definitions by name, alias and file extension.
// It implements Resolver so highlighters can find embedded languages.
type Registry struct {
	mu sync.RWMutex

	// byLanguage maps lower-cased names and aliases to definitions
	byLanguage map[string]LanguageDef

	// byExtension maps lower-cased extensions (with dot) to language names
	byExtension map[string]string

	// names keeps registration order
	names []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]LanguageDef),
		byExtension: make(map[string]string),
	}
}

// Register adds a definition. A later registration of the same name
// replaces the earlier one.
func (r *Registry) Register(def LanguageDef) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(def.Name)
	if _, exists := r.byLanguage[key]; !exists {
		r.names = append(r.names, def.Name)
	}
	r.byLanguage[key] = def
	for _, alias := range def.Aliases {
		r.byLanguage[strings.ToLower(alias)] = def
	}
	for _, ext := range def.Extensions {
		r.byExtension[normalizeExt(ext)] = def.Name
	}
}

// MapExtension points an extension at a registered language.
// It returns false if the language is unknown.
func (r *Registry) MapExtension(ext, language string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.byLanguage[strings.ToLower(language)]
	if !ok || ext == "" {
		return false
	}
	r.byExtension[normalizeExt(ext)] = def.Name
	return true
}

// Definition returns the definition registered under a name or alias.
func (r *Registry) Definition(name string) (LanguageDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byLanguage[strings.ToLower(name)]
	return def, ok
}

// ByExtension returns the definition for a file extension.
// The extension may be given with or without the leading dot, or as a
// file name such as "main.py" or ".bashrc".
func (r *Registry) ByExtension(ext string) (LanguageDef, bool) {
	if ext == "" {
		return LanguageDef{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range extensionKeys(ext) {
		if name, ok := r.byExtension[key]; ok {
			def, ok := r.byLanguage[strings.ToLower(name)]
			return def, ok
		}
	}
	return LanguageDef{}, false
}

// Languages returns all registered language names, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, len(r.names))
	copy(langs, r.names)
	sort.Strings(langs)
	return langs
}

// Extensions returns the extensions mapped to a language, sorted.
func (r *Registry) Extensions(language string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.byLanguage[strings.ToLower(language)]
	if !ok {
		return nil
	}
	var exts []string
	for ext, name := range r.byExtension {
		if name == def.Name {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// normalizeExt lower-cases an extension and ensures the leading dot.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

// extensionKeys lists the lookup keys for a hint, most specific first:
// the whole base name for dot files, then the extension, then the hint
// itself as a bare extension.
func extensionKeys(hint string) []string {
	hint = strings.TrimSpace(hint)
	base := filepath.Base(hint)
	var keys []string
	if strings.HasPrefix(base, ".") {
		keys = append(keys, strings.ToLower(base))
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		keys = append(keys, strings.ToLower(ext))
	}
	keys = append(keys, normalizeExt(hint))
	return keys
}
