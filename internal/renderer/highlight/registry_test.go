package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(LanguageDef{Name: "Python", Aliases: []string{"py", "python3"}, Extensions: []string{"py", ".PYW"}})
	r.Register(LanguageDef{Name: "bash", Extensions: []string{".sh", ".bashrc"}})

	def, ok := r.Definition("python")
	require.True(t, ok)
	assert.Equal(t, "Python", def.Name)

	_, ok = r.Definition("PY3")
	assert.False(t, ok)
	def, ok = r.Definition("Python3")
	require.True(t, ok)
	assert.Equal(t, "Python", def.Name)

	for _, hint := range []string{"py", ".py", "main.py", "/src/x.PYW", "PY"} {
		def, ok := r.ByExtension(hint)
		if assert.True(t, ok, "ByExtension(%q)", hint) {
			assert.Equal(t, "Python", def.Name, "ByExtension(%q)", hint)
		}
	}

	for _, hint := range []string{".bashrc", "/home/u/.bashrc", "run.sh"} {
		def, ok := r.ByExtension(hint)
		if assert.True(t, ok, "ByExtension(%q)", hint) {
			assert.Equal(t, "bash", def.Name)
		}
	}

	_, ok = r.ByExtension("")
	assert.False(t, ok)
	_, ok = r.ByExtension("file.unknown")
	assert.False(t, ok)
}

func TestRegistryReplaceAndList(t *testing.T) {
	r := NewRegistry()
	r.Register(LanguageDef{Name: "json", Extensions: []string{".json"}})
	r.Register(LanguageDef{Name: "css"})
	r.Register(LanguageDef{Name: "json", Extensions: []string{".jsonc"}})

	assert.Equal(t, []string{"css", "json"}, r.Languages())
	assert.Equal(t, []string{".json", ".jsonc"}, r.Extensions("JSON"))
	assert.Nil(t, r.Extensions("nope"))
}

func TestRegistryMapExtension(t *testing.T) {
	r := NewRegistry()
	r.Register(LanguageDef{Name: "xml"})

	assert.True(t, r.MapExtension("svg", "XML"))
	assert.False(t, r.MapExtension(".foo", "unknown"))
	assert.False(t, r.MapExtension("", "xml"))

	def, ok := r.ByExtension("icon.svg")
	require.True(t, ok)
	assert.Equal(t, "xml", def.Name)
}

func TestRegistryIsResolver(t *testing.T) {
	var _ Resolver = NewRegistry()
}
