// Package runlock guards a workspace against concurrent orchestrator
// runs with an on-disk sentinel file. A second process finding the
// sentinel refuses to run rather than interleave artifact writes.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/psychometrika/reportforge/internal/domain"
)

// FileName is the well-known sentinel name inside a workspace.
const FileName = ".reportforge.lock"

// Lock is a held workspace lock.
type Lock struct {
	path string
}

// Path returns the sentinel location for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, FileName)
}

// Acquire creates the sentinel, failing with ErrConcurrentRun when it
// already exists. The sentinel records pid and start time for whoever
// has to inspect a stuck workspace.
func Acquire(workspace string) (*Lock, error) {
	path := Path(workspace)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%s exists: %w", path, domain.ErrConcurrentRun)
		}
		return nil, err
	}
	defer f.Close()

	fmt.Fprintf(f, "pid: %d\nstarted: %s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	return &Lock{path: path}, nil
}

// Release removes the sentinel. Safe to call more than once.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Remove deletes a workspace's sentinel regardless of owner. Backs the
// explicit unlock command used after an abnormally terminated run.
func Remove(workspace string) error {
	if err := os.Remove(Path(workspace)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
