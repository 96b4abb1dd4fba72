package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Generation.ProtectEdits {
		t.Error("protect_edits should default to true")
	}
	if !cfg.Render.TwoStage {
		t.Error("two_stage should default to true")
	}
	if cfg.Render.EnrichWait() != 45*time.Second {
		t.Errorf("EnrichWait() = %v, want 45s", cfg.Render.EnrichWait())
	}
	if cfg.General.WorkspaceDir == "" || cfg.General.OutputDir == "" {
		t.Error("default directories must be set")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Web.Port)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[general]
workspace_dir = "/tmp/rf/workspace"
data_dir = "/tmp/rf/data"
subject = "case-0042"

[generation]
process_cmd = ["Rscript", "render_domain.R"]
protect_edits = false

[render]
two_stage = false
enrich_wait_seconds = 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.Subject != "case-0042" {
		t.Errorf("Subject = %q", cfg.General.Subject)
	}
	if len(cfg.Generation.ProcessCmd) != 2 || cfg.Generation.ProcessCmd[0] != "Rscript" {
		t.Errorf("ProcessCmd = %v", cfg.Generation.ProcessCmd)
	}
	if cfg.Generation.ProtectEdits {
		t.Error("protect_edits should be overridden to false")
	}
	if cfg.Render.EnrichWait() != 5*time.Second {
		t.Errorf("EnrichWait() = %v, want 5s", cfg.Render.EnrichWait())
	}
	// Unset sections keep defaults.
	if cfg.Web.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want default", cfg.Web.Host)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")

	cfg := Default()
	cfg.General.Subject = "case-0099"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.General.Subject != "case-0099" {
		t.Errorf("round-tripped Subject = %q", loaded.General.Subject)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~/reports")
	if !strings.HasPrefix(got, home) {
		t.Errorf("ExpandPath(~/reports) = %q, want under %q", got, home)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}
