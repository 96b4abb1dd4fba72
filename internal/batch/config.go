package batch

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// RefreshConfig is one scheduled regeneration: a cron expression plus
// the run options it applies.
type RefreshConfig struct {
	Name     string `toml:"name"`
	Cron     string `toml:"cron"`
	Subject  string `toml:"subject"`
	Force    bool   `toml:"force"`
	TwoStage bool   `toml:"two_stage"`
}

// ScheduleConfig holds all scheduled refreshes.
type ScheduleConfig struct {
	Refreshes []RefreshConfig `toml:"refresh"`
}

// Validate checks if the config is valid
func (c *RefreshConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("refresh name is required")
	}
	if c.Cron == "" {
		return fmt.Errorf("cron expression is required")
	}
	if _, err := ParseCron(c.Cron); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// LoadScheduleConfig loads the refresh schedule from a TOML file.
// A missing file means no scheduled refreshes.
func LoadScheduleConfig(path string) (*ScheduleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ScheduleConfig{}, nil
		}
		return nil, err
	}

	var cfg ScheduleConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Refreshes {
		if err := cfg.Refreshes[i].Validate(); err != nil {
			return nil, fmt.Errorf("refresh %d: %w", i, err)
		}
	}

	return &cfg, nil
}
