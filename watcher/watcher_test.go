package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yoanbernabeu/keycount/watcher"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, root string, calls *atomic.Int32) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w := watcher.New(root, ".java", 100*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give fsnotify time to register the initial directories.
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_RefreshOnSourceChange(t *testing.T) {
	root := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, root, &calls)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(root, "A.java"), []byte("int a;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if !waitFor(t, 5*time.Second, func() bool { return calls.Load() >= 1 }) {
		t.Fatal("refresh was not called")
	}
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("refresh called %d times for one burst, want 1", n)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, root, &calls)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("int"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(500 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("refresh called %d times, want 0", n)
	}
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	root := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, root, &calls)

	sub := filepath.Join(root, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 5*time.Second, func() bool { return calls.Load() >= 1 }) {
		t.Fatal("refresh was not called for new directory")
	}

	time.Sleep(200 * time.Millisecond)
	before := calls.Load()
	if err := os.WriteFile(filepath.Join(sub, "B.java"), []byte("int b;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 5*time.Second, func() bool { return calls.Load() > before }) {
		t.Fatal("refresh was not called for a file in the new directory")
	}
}
