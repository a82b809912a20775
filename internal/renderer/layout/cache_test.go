package layout

import (
	"testing"

	"github.com/dshills/hilite/internal/renderer/core"
)

func newCache(maxSize int) *LineCache {
	return NewLineCache(NewEngine(4), core.DefaultStyle(), maxSize)
}

func TestLineCacheHit(t *testing.T) {
	cache := newCache(100)

	l1 := cache.Get(0, "Hello")
	l2 := cache.Get(0, "Hello")
	if l1 != l2 {
		t.Error("same content should return the cached layout")
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", stats)
	}
	if stats.MaxSize != 100 || stats.Size != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestLineCacheContentChange(t *testing.T) {
	cache := newCache(100)

	l1 := cache.Get(0, "Hello")
	l2 := cache.Get(0, "World")
	if l1 == l2 {
		t.Error("changed content should be laid out again")
	}
	if runes(l2.Cells) != "World" {
		t.Errorf("got %q", runes(l2.Cells))
	}
}

func TestLineCacheEviction(t *testing.T) {
	cache := newCache(3)

	cache.Get(0, "a")
	cache.Get(1, "b")
	cache.Get(2, "c")
	cache.Get(0, "a") // 0 is now the most recent
	cache.Get(3, "d") // evicts 1

	if cache.Size() != 3 {
		t.Fatalf("expected 3 entries, got %d", cache.Size())
	}
	if cache.Stats().Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", cache.Stats().Evictions)
	}

	before := cache.Stats().Misses
	cache.Get(0, "a")
	if cache.Stats().Misses != before {
		t.Error("recently used line should still be cached")
	}
	cache.Get(1, "b")
	if cache.Stats().Misses != before+1 {
		t.Error("least recently used line should have been evicted")
	}
}

func TestLineCacheInvalidateFrom(t *testing.T) {
	cache := newCache(0)
	for i, s := range []string{"a", "b", "c", "d"} {
		cache.Get(i, s)
	}
	cache.InvalidateFrom(2)
	if cache.Size() != 2 {
		t.Errorf("expected 2 entries, got %d", cache.Size())
	}
}

func TestLineCacheReset(t *testing.T) {
	cache := newCache(0)
	cache.Get(0, "\tx")

	bold := core.DefaultStyle().Bold()
	cache.Reset(NewEngine(2), bold)
	if cache.Size() != 0 {
		t.Fatal("Reset should drop entries")
	}

	l := cache.Get(0, "\tx")
	if runes(l.Cells) != "  x" {
		t.Errorf("new tab width not applied: %q", runes(l.Cells))
	}
	if !l.Cells[2].Style.Equals(bold) {
		t.Error("new base style not applied")
	}
}
