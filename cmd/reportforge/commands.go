package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/psychometrika/reportforge/internal/batch"
	"github.com/psychometrika/reportforge/internal/config"
	"github.com/psychometrika/reportforge/internal/dataset"
	"github.com/psychometrika/reportforge/internal/domain"
	"github.com/psychometrika/reportforge/internal/logging"
	"github.com/psychometrika/reportforge/internal/manifest"
	"github.com/psychometrika/reportforge/internal/orchestrator"
	"github.com/psychometrika/reportforge/internal/processor"
	"github.com/psychometrika/reportforge/internal/protect"
	"github.com/psychometrika/reportforge/internal/registry"
	"github.com/psychometrika/reportforge/internal/render"
	"github.com/psychometrika/reportforge/internal/runlock"
	"github.com/psychometrika/reportforge/internal/watcher"
	"github.com/psychometrika/reportforge/tui"
	"github.com/psychometrika/reportforge/web/api"
)

var (
	genSubject   string
	genForce     bool
	genProtect   bool
	genRender    bool
	twoStage     bool
	batchFile    string
	servePort    int
	tuiSubject   string
	tuiForce     bool
)

func init() {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate domain sections and the manifest",
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&genSubject, "subject", "", "subject label (overrides config)")
	generateCmd.Flags().BoolVar(&genForce, "force", false, "regenerate protected sections")
	generateCmd.Flags().BoolVar(&genProtect, "protect-edits", true, "skip hand-edited sections")
	generateCmd.Flags().BoolVar(&genRender, "render", false, "render the document after generation")
	generateCmd.Flags().BoolVar(&twoStage, "two-stage", true, "two-pass render with enrichment wait")
	rootCmd.AddCommand(generateCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the current manifest into a document",
		RunE:  runRender,
	}
	renderCmd.Flags().BoolVar(&twoStage, "two-stage", true, "two-pass render with enrichment wait")
	rootCmd.AddCommand(renderCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show workspace status",
		RunE:  runStatus,
	}
	rootCmd.AddCommand(statusCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List generated artifacts",
		RunE:  runList,
	}
	rootCmd.AddCommand(listCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever score exports change",
		RunE:  runWatch,
	}
	rootCmd.AddCommand(watchCmd)

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Run scheduled refreshes from a schedule file",
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&batchFile, "schedule", "", "schedule TOML path")
	rootCmd.AddCommand(batchCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the status API server",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on")
	rootCmd.AddCommand(serveCmd)

	unlockCmd := &cobra.Command{
		Use:   "unlock",
		Short: "Remove a stale workspace lock",
		RunE:  runUnlock,
	}
	rootCmd.AddCommand(unlockCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Run a generation pass with the dashboard",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&tuiSubject, "subject", "", "subject label (overrides config)")
	tuiCmd.Flags().BoolVar(&tuiForce, "force", false, "regenerate protected sections")
	rootCmd.AddCommand(tuiCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

func newLogger() (*zap.SugaredLogger, error) {
	log, err := logging.New(verbose)
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

func buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg := registry.New()
	if cfg.General.AliasOverlay != "" {
		if err := reg.LoadOverlay(cfg.General.AliasOverlay); err != nil {
			return nil, fmt.Errorf("alias overlay: %w", err)
		}
	}
	return reg, nil
}

func buildOrchestrator(cfg *config.Config, reg *registry.Registry, log *zap.SugaredLogger) *orchestrator.Orchestrator {
	checker := dataset.NewChecker(dataset.NewLoader(cfg.General.DataDir))
	tracker := protect.NewTracker()

	var proc orchestrator.Processor
	if len(cfg.Generation.ProcessCmd) > 0 {
		proc = processor.NewExec(cfg.Generation.ProcessCmd)
	} else {
		proc = processor.NewTable()
	}

	return orchestrator.New(reg, checker, tracker, proc, cfg.General.WorkspaceDir, log)
}

// runPass executes one generation pass and rebuilds the manifest.
// The checker is built fresh each call so changed exports get reloaded.
func runPass(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, opts orchestrator.Options, onEvent orchestrator.EventFunc) (*domain.RunReport, error) {
	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	orch := buildOrchestrator(cfg, reg, log)
	if onEvent != nil {
		orch.SetEventFunc(onEvent)
	}

	report, err := orch.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	builder := manifest.NewBuilder(cfg.General.WorkspaceDir)
	if err := builder.Build(reg.ListSpecs(), report); err != nil {
		return report, fmt.Errorf("manifest: %w", err)
	}
	return report, nil
}

func renderDocument(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, twoStage bool, subject string) (string, error) {
	engine := render.NewExecEngine(cfg.Render.Command, cfg.General.WorkspaceDir)

	var enricher render.Enricher
	if len(cfg.Render.EnrichCmd) > 0 {
		enricher = render.NewExecEnricher(cfg.Render.EnrichCmd, cfg.General.WorkspaceDir)
	}

	coord := render.NewCoordinator(engine, enricher, cfg.Render.EnrichWait(), log)
	manifestPath := filepath.Join(cfg.General.WorkspaceDir, manifest.FileName)
	return coord.Run(ctx, manifestPath, render.Options{
		TwoStage:  twoStage,
		Subject:   subject,
		Format:    cfg.Render.Format,
		OutputDir: cfg.General.OutputDir,
	})
}

func subjectOr(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.General.Subject
}

// twoStageOr prefers an explicit --two-stage over the config setting.
func twoStageOr(cmd *cobra.Command, cfg *config.Config) bool {
	if cmd.Flags().Changed("two-stage") {
		return twoStage
	}
	return cfg.Render.TwoStage
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	protectEdits := cfg.Generation.ProtectEdits
	if cmd.Flags().Changed("protect-edits") {
		protectEdits = genProtect
	}

	opts := orchestrator.Options{
		Subject:         subjectOr(cfg, genSubject),
		ForceRegenerate: genForce,
		ProtectEdits:    protectEdits,
	}

	report, err := runPass(cmd.Context(), cfg, log, opts, nil)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentRun) {
			return fmt.Errorf("%w (use 'reportforge unlock' if the previous run crashed)", err)
		}
		return err
	}

	fmt.Println(report.Summary())
	for _, msg := range report.Failures() {
		fmt.Printf("  failed: %s\n", msg)
	}

	if genRender {
		out, err := renderDocument(cmd.Context(), cfg, log, twoStageOr(cmd, cfg), opts.Subject)
		if err != nil {
			return err
		}
		fmt.Printf("Rendered %s\n", out)
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	manifestPath := filepath.Join(cfg.General.WorkspaceDir, manifest.FileName)
	if _, err := os.Stat(manifestPath); err != nil {
		return fmt.Errorf("no manifest at %s; run 'reportforge generate' first", manifestPath)
	}

	out, err := renderDocument(cmd.Context(), cfg, log, twoStageOr(cmd, cfg), cfg.General.Subject)
	if err != nil {
		return err
	}
	fmt.Printf("Rendered %s\n", out)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	checker := dataset.NewChecker(dataset.NewLoader(cfg.General.DataDir))
	tracker := protect.NewTracker()

	var withData, onDisk, protected int
	for _, spec := range reg.ListSpecs() {
		if checker.HasData(spec) {
			withData++
		}
		for _, tag := range []domain.RaterTag{domain.RaterDefault, domain.RaterSelf, domain.RaterParent, domain.RaterTeacher, domain.RaterObserver} {
			path := filepath.Join(cfg.General.WorkspaceDir, spec.ArtifactName(tag))
			if _, err := os.Stat(path); err != nil {
				continue
			}
			onDisk++
			if tracker.IsProtected(path) {
				protected++
			}
		}
	}

	specs := reg.ListSpecs()
	fmt.Printf("Domains: %d registered | %d with data\n", len(specs), withData)
	fmt.Printf("Artifacts: %d on disk | %d hand-edited\n", onDisk, protected)

	if info, err := os.Stat(runlock.Path(cfg.General.WorkspaceDir)); err == nil {
		fmt.Printf("Lock: held since %s\n", humanize.Time(info.ModTime()))
	} else {
		fmt.Println("Lock: free")
	}

	manifestPath := filepath.Join(cfg.General.WorkspaceDir, manifest.FileName)
	if info, err := os.Stat(manifestPath); err == nil {
		fmt.Printf("Manifest: built %s\n", humanize.Time(info.ModTime()))
	} else {
		fmt.Println("Manifest: missing")
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	tracker := protect.NewTracker()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ARTIFACT\tSIZE\tAGE\tEDITED")
	for _, spec := range reg.ListSpecs() {
		for _, tag := range []domain.RaterTag{domain.RaterDefault, domain.RaterSelf, domain.RaterParent, domain.RaterTeacher, domain.RaterObserver} {
			name := spec.ArtifactName(tag)
			info, err := os.Stat(filepath.Join(cfg.General.WorkspaceDir, name))
			if err != nil {
				continue
			}
			edited := "-"
			if tracker.IsProtected(filepath.Join(cfg.General.WorkspaceDir, name)) {
				edited = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				name, humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()), edited)
		}
	}
	return w.Flush()
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := orchestrator.Options{
		Subject:      cfg.General.Subject,
		ProtectEdits: cfg.Generation.ProtectEdits,
	}

	// Initial pass so the workspace reflects the current exports.
	report, err := runPass(ctx, cfg, log, opts, nil)
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())

	w, err := watcher.New(cfg.General.DataDir, func(changed []string) {
		log.Infow("exports changed", "files", changed)
		report, err := runPass(ctx, cfg, log, opts, nil)
		if err != nil {
			log.Warnw("regeneration failed", "error", err)
			return
		}
		fmt.Println(report.Summary())
	})
	if err != nil {
		return err
	}
	defer w.Stop()
	w.Start(ctx)

	fmt.Printf("Watching %s (ctrl-c to stop)\n", cfg.General.DataDir)
	<-ctx.Done()
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	if batchFile == "" {
		return fmt.Errorf("--schedule is required")
	}
	schedule, err := batch.LoadScheduleConfig(batchFile)
	if err != nil {
		return err
	}

	sched, err := batch.NewScheduler(schedule.Refreshes, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		sched.Stop()
	}()

	for _, name := range sched.ListRefreshes() {
		fmt.Printf("%s: next run %s\n", name, humanize.Time(sched.NextRun(name)))
	}

	sched.Start(func(rc batch.RefreshConfig) error {
		opts := orchestrator.Options{
			Subject:         subjectOr(cfg, rc.Subject),
			ForceRegenerate: rc.Force,
			ProtectEdits:    cfg.Generation.ProtectEdits,
		}
		report, err := runPass(ctx, cfg, log, opts, nil)
		if err != nil {
			return err
		}
		log.Infow("scheduled refresh complete", "refresh", rc.Name, "summary", report.Summary())
		_, err = renderDocument(ctx, cfg, log, rc.TwoStage, opts.Subject)
		return err
	})
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = cfg.Web.Port
	}
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, port)
	server := api.NewServer(addr, cfg.General.WorkspaceDir, reg.ListSpecs())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := orchestrator.Options{
		Subject:      cfg.General.Subject,
		ProtectEdits: cfg.Generation.ProtectEdits,
	}
	regenerate := func() {
		report, err := runPass(ctx, cfg, log, opts, server.HandleEvent)
		if err != nil {
			log.Warnw("regeneration failed", "error", err)
			return
		}
		server.SetReport(report)
	}

	w, err := watcher.New(cfg.General.DataDir, func([]string) { regenerate() })
	if err != nil {
		return err
	}
	defer w.Stop()

	httpSrv := &http.Server{Addr: addr, Handler: server.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Printf("Status API at http://%s\n", addr)
		if err := httpSrv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		regenerate()
		w.Start(ctx)
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutCtx)
	})
	return g.Wait()
}

func runUnlock(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := runlock.Remove(cfg.General.WorkspaceDir); err != nil {
		return err
	}
	fmt.Println("Lock removed")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.NewNop().Sugar()

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	model := tui.NewModel(tui.ModelConfig{
		Specs:   reg.ListSpecs(),
		Subject: subjectOr(cfg, tuiSubject),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		opts := orchestrator.Options{
			Subject:         subjectOr(cfg, tuiSubject),
			ForceRegenerate: tuiForce,
			ProtectEdits:    cfg.Generation.ProtectEdits,
		}
		report, err := runPass(cmd.Context(), cfg, log, opts, func(ev orchestrator.Event) {
			p.Send(tui.EventMsg{Event: ev})
		})
		p.Send(tui.RunDoneMsg{Report: report, Err: err})
	}()

	_, err = p.Run()
	return err
}
