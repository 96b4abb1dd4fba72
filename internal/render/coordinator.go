// Package render coordinates the two-phase document render. The first
// pass may run before asynchronous enrichment has finished; after a
// bounded wait the second pass picks up the enriched content. The wait
// is elapsed time, not a completion signal — the enrichment service has
// no callback, and a slow enrichment can lose the race.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Engine renders the manifest into a document and returns the produced
// file path.
type Engine interface {
	Render(ctx context.Context, manifestPath, format string) (string, error)
}

// Enricher triggers the out-of-process text summarization step. The
// trigger is fire-and-forget; no completion signal comes back.
type Enricher interface {
	Trigger(ctx context.Context) error
}

// Options control one coordinator run.
type Options struct {
	TwoStage  bool
	Subject   string
	Format    string
	OutputDir string
}

// Coordinator drives the render passes and relocates the final output.
type Coordinator struct {
	engine   Engine
	enricher Enricher
	wait     time.Duration
	log      *zap.SugaredLogger
}

// NewCoordinator creates a render coordinator.
func NewCoordinator(engine Engine, enricher Enricher, wait time.Duration, log *zap.SugaredLogger) *Coordinator {
	return &Coordinator{engine: engine, enricher: enricher, wait: wait, log: log}
}

// Run executes the render protocol and returns the final output path.
// First-pass failures are logged and tolerated; a second-pass (or
// single-pass) failure is fatal.
func (c *Coordinator) Run(ctx context.Context, manifestPath string, opts Options) (string, error) {
	if opts.TwoStage {
		if _, err := c.engine.Render(ctx, manifestPath, opts.Format); err != nil {
			c.log.Warnw("first render pass failed", "error", err)
		}

		if c.enricher != nil {
			if err := c.enricher.Trigger(ctx); err != nil {
				c.log.Warnw("enrichment trigger failed", "error", err)
			}
		}

		c.log.Debugw("waiting for enrichment", "wait", c.wait)
		select {
		case <-time.After(c.wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	produced, err := c.engine.Render(ctx, manifestPath, opts.Format)
	if err != nil {
		return "", fmt.Errorf("final render: %w", err)
	}

	final, err := c.relocate(produced, opts)
	if err != nil {
		return "", err
	}
	c.log.Infow("report rendered", "output", final)
	return final, nil
}

// relocate moves the produced document to the subject-labelled output
// location, overwriting any prior report for the same subject.
func (c *Coordinator) relocate(produced string, opts Options) (string, error) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", err
	}
	final := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.%s", opts.Subject, opts.Format))

	if err := os.Rename(produced, final); err != nil {
		// Rename fails across filesystems; fall back to copy.
		if copyErr := copyFile(produced, final); copyErr != nil {
			return "", fmt.Errorf("relocating output: %w", copyErr)
		}
		os.Remove(produced)
	}
	return final, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
