// Package orchestrator runs the per-domain generation loop: availability
// check, edit protection, rater expansion, processing, and status
// bookkeeping. Every per-domain error is converted into a RunReport
// entry; nothing short of setup failure aborts a pass.
package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psychometrika/reportforge/internal/dataset"
	"github.com/psychometrika/reportforge/internal/domain"
	"github.com/psychometrika/reportforge/internal/protect"
	"github.com/psychometrika/reportforge/internal/rater"
	"github.com/psychometrika/reportforge/internal/registry"
	"github.com/psychometrika/reportforge/internal/runlock"
)

// Processor produces artifact content for one domain variant. It is the
// external collaborator boundary; implementations live outside this
// package.
type Processor interface {
	Process(ctx context.Context, key string, rows []domain.Row, tag domain.RaterTag) ([]byte, error)
}

// Options control one orchestrator pass.
type Options struct {
	Subject         string
	ForceRegenerate bool // bypass protection, clear artifacts first
	ProtectEdits    bool // honor hand-edit protection
}

// Event reports per-domain progress to an optional observer (TUI, web).
type Event struct {
	Key    string
	Status domain.GenerationStatus
	// Processing is true for the start-of-domain event, before a final
	// status exists.
	Processing bool
	Artifacts  []string
	Message    string
}

// EventFunc receives progress events during a pass.
type EventFunc func(Event)

// Orchestrator iterates the registry and generates domain artifacts.
type Orchestrator struct {
	registry  *registry.Registry
	checker   *dataset.Checker
	tracker   *protect.Tracker
	processor Processor
	workspace string
	log       *zap.SugaredLogger
	onEvent   EventFunc
}

// New creates an orchestrator over a workspace directory.
func New(reg *registry.Registry, checker *dataset.Checker, tracker *protect.Tracker,
	proc Processor, workspace string, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		registry:  reg,
		checker:   checker,
		tracker:   tracker,
		processor: proc,
		workspace: workspace,
		log:       log,
	}
}

// SetEventFunc registers a progress observer.
func (o *Orchestrator) SetEventFunc(fn EventFunc) {
	o.onEvent = fn
}

func (o *Orchestrator) emit(ev Event) {
	if o.onEvent != nil {
		o.onEvent(ev)
	}
}

// allTags are every artifact variant a domain can own on disk, checked
// for protection and cleared on force runs even when the current data
// would not expand into them.
var allTags = []domain.RaterTag{
	domain.RaterDefault, domain.RaterSelf, domain.RaterParent, domain.RaterTeacher, domain.RaterObserver,
}

// ArtifactPath returns the workspace location of one variant artifact.
func (o *Orchestrator) ArtifactPath(spec domain.DomainSpec, tag domain.RaterTag) string {
	return filepath.Join(o.workspace, spec.ArtifactName(tag))
}

// Run executes one pass over all registered domains in section order.
// The workspace lock is held for the duration; a second concurrent run
// fails before any domain is touched.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*domain.RunReport, error) {
	if err := os.MkdirAll(o.workspace, 0755); err != nil {
		return nil, err
	}

	lock, err := runlock.Acquire(o.workspace)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		Subject:   opts.Subject,
		StartedAt: time.Now(),
	}

	for _, spec := range o.registry.ListSpecs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := o.runDomain(ctx, spec, opts)
		report.Add(res)
		o.emit(Event{Key: res.Key, Status: res.Status, Artifacts: res.Artifacts, Message: errMsg(res.Err)})

		switch res.Status {
		case domain.StatusFailed:
			o.log.Warnw("domain failed", "domain", res.Key, "error", res.Err)
		default:
			o.log.Debugw("domain done", "domain", res.Key, "status", res.Status)
		}
	}

	report.FinishedAt = time.Now()
	o.log.Infow("pass complete", "run_id", report.RunID, "summary", report.Summary())
	return report, nil
}

// runDomain drives one domain through the pending → terminal state
// machine. It never returns an error: failures become StatusFailed.
func (o *Orchestrator) runDomain(ctx context.Context, spec domain.DomainSpec, opts Options) domain.DomainResult {
	res := domain.DomainResult{Key: spec.Key}

	rows, err := o.checker.Rows(spec)
	if err != nil {
		o.log.Debugw("domain skipped", "domain", spec.Key, "reason", err)
		res.Status = domain.StatusSkipped
		return res
	}

	variants := rater.Expand(spec, rows)
	if len(variants) == 0 {
		res.Status = domain.StatusSkipped
		return res
	}

	// Protection is domain-granular: one hand-edited variant protects
	// every variant, so regeneration cannot leave the set inconsistent.
	if !opts.ForceRegenerate && opts.ProtectEdits {
		for _, tag := range allTags {
			if o.tracker.IsProtected(o.ArtifactPath(spec, tag)) {
				res.Status = domain.StatusProtected
				res.Artifacts = o.existingArtifacts(spec)
				return res
			}
		}
	}

	o.emit(Event{Key: spec.Key, Processing: true})

	if opts.ForceRegenerate {
		for _, tag := range allTags {
			if err := o.tracker.Clear(o.ArtifactPath(spec, tag)); err != nil {
				res.Status = domain.StatusFailed
				res.Err = err
				return res
			}
		}
	}

	// Compute every variant before writing anything so a processor
	// failure leaves the domain's prior artifacts untouched.
	contents := make([][]byte, len(variants))
	for i, v := range variants {
		content, err := o.processor.Process(ctx, spec.Key, v.Rows, v.Tag)
		if err != nil {
			res.Status = domain.StatusFailed
			res.Err = err
			return res
		}
		contents[i] = content
	}

	existedBefore := true
	for _, v := range variants {
		if _, err := os.Stat(o.ArtifactPath(spec, v.Tag)); err != nil {
			existedBefore = false
			break
		}
	}

	for i, v := range variants {
		path := o.ArtifactPath(spec, v.Tag)
		if err := os.WriteFile(path, contents[i], 0644); err != nil {
			res.Status = domain.StatusFailed
			res.Err = err
			return res
		}
		if err := o.tracker.MarkGenerated(path); err != nil {
			res.Status = domain.StatusFailed
			res.Err = err
			return res
		}
		res.Artifacts = append(res.Artifacts, path)
	}

	if existedBefore && !opts.ForceRegenerate {
		res.Status = domain.StatusCached
	} else {
		res.Status = domain.StatusGenerated
	}
	return res
}

// existingArtifacts lists a domain's on-disk artifacts in rater order.
func (o *Orchestrator) existingArtifacts(spec domain.DomainSpec) []string {
	var out []string
	for _, tag := range allTags {
		path := o.ArtifactPath(spec, tag)
		if _, err := os.Stat(path); err == nil {
			out = append(out, path)
		}
	}
	return out
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
