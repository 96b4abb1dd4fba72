package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Generation GenerationConfig `toml:"generation"`
	Render     RenderConfig     `toml:"render"`
	Web        WebConfig        `toml:"web"`
}

// GeneralConfig holds workspace and data locations
type GeneralConfig struct {
	WorkspaceDir string `toml:"workspace_dir"` // artifacts, markers, manifest, lock
	DataDir      string `toml:"data_dir"`      // tabular score exports
	OutputDir    string `toml:"output_dir"`    // final rendered reports
	Subject      string `toml:"subject"`       // default subject label
	AliasOverlay string `toml:"alias_overlay"` // optional extra-alias YAML
}

// GenerationConfig holds per-domain processing settings
type GenerationConfig struct {
	ProcessCmd   []string `toml:"process_cmd"` // external processor argv; empty = builtin table
	ProtectEdits bool     `toml:"protect_edits"`
}

// RenderConfig holds typesetting and enrichment settings
type RenderConfig struct {
	Command           []string `toml:"command"` // render engine argv
	Format            string   `toml:"format"`
	TwoStage          bool     `toml:"two_stage"`
	EnrichCmd         []string `toml:"enrich_cmd"` // fire-and-forget enrichment trigger
	EnrichWaitSeconds int      `toml:"enrich_wait_seconds"`
}

// WebConfig holds status server settings
type WebConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// EnrichWait returns the bounded wait between the two render passes.
func (r RenderConfig) EnrichWait() time.Duration {
	return time.Duration(r.EnrichWaitSeconds) * time.Second
}

// Default returns a Config with sensible defaults
func Default() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".reportforge")
	return &Config{
		General: GeneralConfig{
			WorkspaceDir: filepath.Join(base, "workspace"),
			DataDir:      filepath.Join(base, "data"),
			OutputDir:    filepath.Join(base, "reports"),
		},
		Generation: GenerationConfig{
			ProtectEdits: true,
		},
		Render: RenderConfig{
			Command:           []string{"latexmk", "-pdf", "-interaction=nonstopmode", "report.tex"},
			Format:            "pdf",
			TwoStage:          true,
			EnrichWaitSeconds: 45,
		},
		Web: WebConfig{
			Port: 8080,
			Host: "127.0.0.1",
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.General.WorkspaceDir = ExpandPath(cfg.General.WorkspaceDir)
	cfg.General.DataDir = ExpandPath(cfg.General.DataDir)
	cfg.General.OutputDir = ExpandPath(cfg.General.OutputDir)
	cfg.General.AliasOverlay = ExpandPath(cfg.General.AliasOverlay)

	return cfg, nil
}

// Save writes the configuration to a TOML file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "reportforge", "config.toml")
}
