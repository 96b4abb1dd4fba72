package domain

import (
	"fmt"
	"time"
)

// DomainResult records the outcome of one domain in one orchestrator pass.
type DomainResult struct {
	Key       string
	Status    GenerationStatus
	Artifacts []string // paths written or confirmed, rater order
	Err       error    // set only for StatusFailed
}

// RunReport aggregates one orchestrator pass. It is rebuilt on every
// invocation and never persisted.
type RunReport struct {
	RunID      string
	Subject    string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []DomainResult
}

// Add appends a domain result.
func (r *RunReport) Add(res DomainResult) {
	r.Results = append(r.Results, res)
}

// Count returns the number of domains that finished with status s.
func (r *RunReport) Count(s GenerationStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Failures returns one message per failed domain.
func (r *RunReport) Failures() []string {
	var msgs []string
	for _, res := range r.Results {
		if res.Status == StatusFailed && res.Err != nil {
			msgs = append(msgs, fmt.Sprintf("%s: %v", res.Key, res.Err))
		}
	}
	return msgs
}

// Summary returns a one-line status breakdown for CLI output.
func (r *RunReport) Summary() string {
	return fmt.Sprintf("%d generated | %d cached | %d protected | %d skipped | %d failed",
		r.Count(StatusGenerated), r.Count(StatusCached), r.Count(StatusProtected),
		r.Count(StatusSkipped), r.Count(StatusFailed))
}

// Duration returns the elapsed wall time of the pass.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
