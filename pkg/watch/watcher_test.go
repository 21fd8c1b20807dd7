package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatcher_DetectsNewCatFile(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	var mu sync.Mutex
	var seen []string
	w.OnFile = func(path string) error {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	if err := os.WriteFile(filepath.Join(dir, "new.CAT"), []byte("11abc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// A non-matching file must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Watcher never reported the new file")
		case <-time.After(20 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, name := range seen {
		if name != "new.CAT" {
			t.Errorf("Unexpected file reported: %s", name)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Run did not stop on context cancel")
	}
}

func TestWatcher_ChangeDuringExtractionIsNotDropped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.CAT")
	if err := os.WriteFile(path, []byte("11 first version\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(dir, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	calls := make(chan string, 4)

	var once sync.Once
	w.OnFile = func(p string) error {
		calls <- p
		once.Do(func() {
			close(firstStarted)
			<-releaseFirst
		})
		return nil
	}

	go w.handleChange(path)

	<-firstStarted
	// Rewrite the file while its first extraction is still running,
	// then deliver the event that would previously be dropped.
	if err := os.WriteFile(path, []byte("11 second version, longer\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w.handleChange(path)
	close(releaseFirst)

	<-calls // first invocation
	select {
	case <-calls:
		// re-armed pass picked up the rewrite
	case <-time.After(3 * time.Second):
		t.Fatal("File change during extraction was dropped")
	}
}

func TestWatcher_MissingFolder(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope"), 0)
	if err == nil {
		t.Fatal("Expected error for missing folder")
	}
}

func TestWatcher_DefaultDebounce(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if w.debounce != 500*time.Millisecond {
		t.Errorf("debounce = %v, want 500ms default", w.debounce)
	}
}
