// Package protect detects hand-edited artifacts via companion generation
// markers. An artifact is protected when it exists but its marker is
// missing, or when its content was modified after the marker was written.
// The comparison is an explicit (generated_at, content mtime) check so it
// could be swapped for content hashing without touching orchestration.
package protect

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// MarkerSuffix is appended to an artifact path to form its marker path.
const MarkerSuffix = ".gen"

// Tracker reads and writes generation markers.
type Tracker struct{}

// NewTracker creates a marker tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// MarkerPath returns the companion marker location for an artifact.
func MarkerPath(artifact string) string {
	return artifact + MarkerSuffix
}

// MarkGenerated writes the marker for a freshly written artifact. The
// recorded time is the artifact's own mtime so the strict "modified
// later" comparison holds even on coarse filesystem clocks.
func (t *Tracker) MarkGenerated(artifact string) error {
	generatedAt := time.Now()
	if info, err := os.Stat(artifact); err == nil {
		generatedAt = info.ModTime()
	}

	content := fmt.Sprintf("generated_at: %s\nartifact: %s\n",
		generatedAt.Format(time.RFC3339Nano), artifact)
	return os.WriteFile(MarkerPath(artifact), []byte(content), 0644)
}

// GeneratedAt reads the recorded generation time from an artifact's
// marker. The second return is false when no marker exists or it cannot
// be parsed.
func (t *Tracker) GeneratedAt(artifact string) (time.Time, bool) {
	data, err := os.ReadFile(MarkerPath(artifact))
	if err != nil {
		return time.Time{}, false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if rest, ok := strings.CutPrefix(line, "generated_at: "); ok {
			ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(rest))
			if err != nil {
				return time.Time{}, false
			}
			return ts, true
		}
	}
	return time.Time{}, false
}

// IsProtected reports whether an existing artifact appears hand-edited:
// no marker, or content modified strictly after the marker's recorded
// time. A missing artifact is never protected.
func (t *Tracker) IsProtected(artifact string) bool {
	info, err := os.Stat(artifact)
	if err != nil {
		return false
	}
	generatedAt, ok := t.GeneratedAt(artifact)
	if !ok {
		return true
	}
	return info.ModTime().After(generatedAt)
}

// Clear removes an artifact and its marker, ignoring files that are
// already gone. Force runs call this so the next protection check starts
// clean.
func (t *Tracker) Clear(artifact string) error {
	if err := os.Remove(artifact); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(MarkerPath(artifact)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
