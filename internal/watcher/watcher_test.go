package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func collect(t *testing.T, dir string) (<-chan []string, *DataWatcher) {
	t.Helper()
	ch := make(chan []string, 4)
	w, err := New(dir, func(files []string) { ch <- files })
	if err != nil {
		t.Fatal(err)
	}
	w.SetDebounce(50 * time.Millisecond)
	w.Start(context.Background())
	t.Cleanup(w.Stop)
	return ch, w
}

func TestWatcher_DataFileChange(t *testing.T) {
	dir := t.TempDir()
	ch, _ := collect(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "scores.csv"), []byte("domain\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case files := <-ch:
		if len(files) == 0 {
			t.Error("callback with no files")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no callback after data file write")
	}
}

func TestWatcher_IgnoresNonDataFiles(t *testing.T) {
	dir := t.TempDir()
	ch, _ := collect(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case files := <-ch:
		t.Errorf("unexpected callback for %v", files)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebounceBatchesWrites(t *testing.T) {
	dir := t.TempDir()
	ch, _ := collect(t, dir)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "scores.csv"), []byte("domain\n"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no callback")
	}
	// The rapid writes should have collapsed into one callback.
	select {
	case files := <-ch:
		t.Errorf("second callback for %v, want debounced single callback", files)
	case <-time.After(300 * time.Millisecond):
	}
}
