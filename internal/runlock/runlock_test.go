package runlock

import (
	"errors"
	"os"
	"testing"

	"github.com/psychometrika/reportforge/internal/domain"
)

func TestAcquireRelease(t *testing.T) {
	ws := t.TempDir()

	lock, err := Acquire(ws)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(Path(ws)); err != nil {
		t.Fatalf("sentinel not written: %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(Path(ws)); !os.IsNotExist(err) {
		t.Error("sentinel should be gone after release")
	}

	// Double release is harmless.
	if err := lock.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
}

func TestAcquire_ConcurrentRunDetected(t *testing.T) {
	ws := t.TempDir()

	lock, err := Acquire(ws)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	if _, err := Acquire(ws); !errors.Is(err, domain.ErrConcurrentRun) {
		t.Errorf("second Acquire: err = %v, want ErrConcurrentRun", err)
	}
}

func TestRemove(t *testing.T) {
	ws := t.TempDir()
	if _, err := Acquire(ws); err != nil {
		t.Fatal(err)
	}

	if err := Remove(ws); err != nil {
		t.Fatal(err)
	}
	if _, err := Acquire(ws); err != nil {
		t.Errorf("Acquire after Remove: %v", err)
	}
	// Removing an absent sentinel is fine.
	if err := Remove(t.TempDir()); err != nil {
		t.Errorf("Remove on clean workspace: %v", err)
	}
}
