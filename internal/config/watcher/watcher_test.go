package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// recorder collects events delivered to a handler.
type recorder struct {
	mu     sync.Mutex
	events []Event
	notify chan struct{}
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan struct{}, 64)}
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	r.notify <- struct{}{}
}

func (r *recorder) wait(t *testing.T) Event {
	t.Helper()
	select {
	case <-r.notify:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_WatchAndUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	writeFile(t, a, "x = 1")

	w := newWatcher(t)
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	// A file that does not exist yet is allowed
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch(missing) error = %v", err)
	}
	if err := w.Watch(a); err != nil {
		t.Fatalf("second Watch() error = %v", err)
	}

	files := w.WatchedFiles()
	if len(files) != 2 || files[0] != a || files[1] != b {
		t.Errorf("WatchedFiles() = %v", files)
	}

	if err := w.Unwatch(a); err != nil {
		t.Errorf("Unwatch() error = %v", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Errorf("Unwatch() error = %v", err)
	}
	if len(w.WatchedFiles()) != 0 {
		t.Errorf("WatchedFiles() = %v after Unwatch", w.WatchedFiles())
	}

	if err := w.Watch(filepath.Join(dir, "nodir", "c.toml")); err == nil {
		t.Error("Watch() in a missing directory should fail")
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.toml")
	writeFile(t, path, "blue = '#0000ff'")

	w := newWatcher(t, WithDebounce(0))
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	writeFile(t, path, "blue = '#0000aa'")

	ev := rec.wait(t)
	if ev.Path != path {
		t.Errorf("event path = %q, want %q", ev.Path, path)
	}
	if ev.Op != OpWrite && ev.Op != OpCreate {
		t.Errorf("event op = %v, want write or create", ev.Op)
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.toml")
	writeFile(t, path, "")

	w := newWatcher(t, WithDebounce(0))
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(dir, "other.toml"), "x")
	writeFile(t, path, "y")

	ev := rec.wait(t)
	if ev.Path != path {
		t.Errorf("event for unwatched file %q", ev.Path)
	}
}

func TestWatcher_DetectsAtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "a: 1")

	w := newWatcher(t, WithDebounce(0))
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	tmp := filepath.Join(dir, ".config.yaml.tmp")
	writeFile(t, tmp, "a: 2")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	if ev := rec.wait(t); ev.Path != path {
		t.Errorf("event path = %q, want %q", ev.Path, path)
	}
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.json")
	writeFile(t, path, "{}")

	w := newWatcher(t, WithDebounce(50*time.Millisecond))
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		writeFile(t, path, `{"n": 1}`)
	}

	rec.wait(t)
	time.Sleep(200 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("got %d events, want 1 after debouncing", n)
	}
}

func TestWatcher_QueueEvent(t *testing.T) {
	w := &Watcher{pending: make(map[string]pendingEvent)}
	now := time.Now()

	w.queueEvent(Event{Path: "/a", Op: OpCreate, Time: now})
	w.queueEvent(Event{Path: "/a", Op: OpWrite, Time: now.Add(time.Millisecond)})
	if p := w.pending["/a"]; p.Op != OpCreate || !p.Time.Equal(now.Add(time.Millisecond)) {
		t.Errorf("create+write = %v, want create with latest time", p)
	}

	w.queueEvent(Event{Path: "/a", Op: OpRemove, Time: now})
	if p := w.pending["/a"]; p.Op != OpRemove {
		t.Errorf("create+remove = %v, want remove", p.Op)
	}

	w.queueEvent(Event{Path: "/b", Op: OpWrite, Time: now})
	w.queueEvent(Event{Path: "/b", Op: OpWrite, Time: now})
	if p := w.pending["/b"]; p.Op != OpWrite {
		t.Errorf("write+write = %v, want write", p.Op)
	}
}

func TestWatcher_HandlerPanicRecovered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.toml")
	writeFile(t, path, "")

	w := newWatcher(t, WithDebounce(0))
	w.OnChange(func(Event) { panic("boom") })
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	writeFile(t, path, "a = 1")
	rec.wait(t)
}

func TestWatcher_Close(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch("x.toml"); err != ErrWatcherClosed {
		t.Errorf("Watch after Close = %v, want ErrWatcherClosed", err)
	}
}
