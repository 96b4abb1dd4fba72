package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExecEngine shells out to the configured typesetting command inside the
// workspace. The manifest path is exported in the environment; the
// produced document is expected next to the manifest as report.<format>.
type ExecEngine struct {
	Command []string
	Dir     string
}

// NewExecEngine creates an exec-backed render engine rooted in dir.
func NewExecEngine(command []string, dir string) *ExecEngine {
	return &ExecEngine{Command: command, Dir: dir}
}

// Render runs the engine once over the manifest.
func (e *ExecEngine) Render(ctx context.Context, manifestPath, format string) (string, error) {
	if len(e.Command) == 0 {
		return "", fmt.Errorf("no render command configured")
	}

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Dir = e.Dir
	cmd.Env = append(cmd.Environ(), "REPORTFORGE_MANIFEST="+manifestPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("render engine: %w: %s", err, msg)
		}
		return "", fmt.Errorf("render engine: %w", err)
	}
	return filepath.Join(e.Dir, "report."+format), nil
}

// ExecEnricher launches the summarization trigger command without
// waiting for it: the service runs out-of-process and reports nothing
// back.
type ExecEnricher struct {
	Command []string
	Dir     string
}

// NewExecEnricher creates an exec-backed enrichment trigger.
func NewExecEnricher(command []string, dir string) *ExecEnricher {
	return &ExecEnricher{Command: command, Dir: dir}
}

// Trigger starts the enrichment command and returns once it is running.
func (e *ExecEnricher) Trigger(ctx context.Context) error {
	if len(e.Command) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Dir = e.Dir
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting enrichment: %w", err)
	}
	// Reap the process in the background; its exit status is not ours
	// to act on.
	go cmd.Wait()
	return nil
}
