package protect

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("\\section{Memory}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTracker_FreshArtifactNotProtected(t *testing.T) {
	tr := NewTracker()
	path := writeArtifact(t, t.TempDir(), "04_memory.tex")

	if err := tr.MarkGenerated(path); err != nil {
		t.Fatal(err)
	}
	if tr.IsProtected(path) {
		t.Error("freshly marked artifact must not be protected")
	}
}

func TestTracker_MissingMarkerIsProtected(t *testing.T) {
	tr := NewTracker()
	path := writeArtifact(t, t.TempDir(), "04_memory.tex")

	if !tr.IsProtected(path) {
		t.Error("artifact without marker must be protected")
	}
}

func TestTracker_EditAfterMarkerIsProtected(t *testing.T) {
	tr := NewTracker()
	path := writeArtifact(t, t.TempDir(), "04_memory.tex")
	if err := tr.MarkGenerated(path); err != nil {
		t.Fatal(err)
	}

	// Simulate a hand edit strictly after generation.
	edited := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, edited, edited); err != nil {
		t.Fatal(err)
	}

	if !tr.IsProtected(path) {
		t.Error("artifact modified after marker must be protected")
	}
}

func TestTracker_MissingArtifactNeverProtected(t *testing.T) {
	tr := NewTracker()
	if tr.IsProtected(filepath.Join(t.TempDir(), "nope.tex")) {
		t.Error("missing artifact must not be protected")
	}
}

func TestTracker_GeneratedAt(t *testing.T) {
	tr := NewTracker()
	path := writeArtifact(t, t.TempDir(), "04_memory.tex")
	if err := tr.MarkGenerated(path); err != nil {
		t.Fatal(err)
	}

	ts, ok := tr.GeneratedAt(path)
	if !ok {
		t.Fatal("expected a readable marker")
	}
	if d := time.Since(ts); d < 0 || d > time.Minute {
		t.Errorf("GeneratedAt() = %v, not recent", ts)
	}

	if _, ok := tr.GeneratedAt(path + ".other"); ok {
		t.Error("GeneratedAt for unmarked artifact should report false")
	}
}

func TestTracker_Clear(t *testing.T) {
	tr := NewTracker()
	path := writeArtifact(t, t.TempDir(), "04_memory.tex")
	if err := tr.MarkGenerated(path); err != nil {
		t.Fatal(err)
	}

	if err := tr.Clear(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("artifact should be removed")
	}
	if _, err := os.Stat(MarkerPath(path)); !os.IsNotExist(err) {
		t.Error("marker should be removed")
	}

	// Clearing again is a no-op.
	if err := tr.Clear(path); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
