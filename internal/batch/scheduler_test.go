package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRefreshConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RefreshConfig
		wantErr bool
	}{
		{"valid", RefreshConfig{Name: "nightly", Cron: "0 2 * * *"}, false},
		{"missing name", RefreshConfig{Cron: "0 2 * * *"}, true},
		{"missing cron", RefreshConfig{Name: "nightly"}, true},
		{"bad cron", RefreshConfig{Name: "nightly", Cron: "not a cron"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadScheduleConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.toml")
	content := `
[[refresh]]
name = "nightly"
cron = "0 2 * * *"
subject = "case-1"
two_stage = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadScheduleConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Refreshes) != 1 || cfg.Refreshes[0].Name != "nightly" || !cfg.Refreshes[0].TwoStage {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadScheduleConfig_Missing(t *testing.T) {
	cfg, err := LoadScheduleConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Refreshes) != 0 {
		t.Errorf("missing file should yield empty schedule, got %+v", cfg)
	}
}

func TestScheduler_ShouldRun(t *testing.T) {
	log := zap.NewNop().Sugar()
	s, err := NewScheduler([]RefreshConfig{{Name: "nightly", Cron: "* * * * *"}}, log)
	if err != nil {
		t.Fatal(err)
	}

	// Every-minute cron with no prior run is due.
	if !s.ShouldRun("nightly") {
		t.Error("every-minute refresh should be due")
	}

	s.MarkRunning("nightly")
	if s.ShouldRun("nightly") {
		t.Error("running refresh must not start again")
	}

	s.MarkComplete("nightly")
	if s.ShouldRun("nightly") {
		t.Error("just-completed refresh should wait for the next slot")
	}

	if s.ShouldRun("unknown") {
		t.Error("unknown refresh should never run")
	}
}

func TestScheduler_NextRun(t *testing.T) {
	log := zap.NewNop().Sugar()
	s, err := NewScheduler([]RefreshConfig{{Name: "nightly", Cron: "0 2 * * *"}}, log)
	if err != nil {
		t.Fatal(err)
	}

	next := s.NextRun("nightly")
	if next.IsZero() || !next.After(time.Now()) {
		t.Errorf("NextRun = %v, want a future time", next)
	}
	if !s.NextRun("unknown").IsZero() {
		t.Error("NextRun for unknown refresh should be zero")
	}
}
