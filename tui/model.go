package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/psychometrika/reportforge/internal/domain"
	"github.com/psychometrika/reportforge/internal/orchestrator"
)

// rowState is what the dashboard knows about one domain.
type rowState struct {
	Status     domain.GenerationStatus
	Processing bool
	Message    string
	Artifacts  int
}

// Model is the TUI application model
type Model struct {
	specs   []domain.DomainSpec
	rows    map[string]rowState
	subject string

	report   *domain.RunReport
	finished bool

	// UI state
	width       int
	height      int
	selectedRow int

	started time.Time
}

// ModelConfig holds initial data for the TUI model
type ModelConfig struct {
	Specs   []domain.DomainSpec
	Subject string
}

// NewModel creates a new TUI model
func NewModel(cfg ModelConfig) Model {
	return Model{
		specs:   cfg.Specs,
		rows:    make(map[string]rowState),
		subject: cfg.Subject,
		started: time.Now(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg redraws the elapsed-time header once a second.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// EventMsg carries one orchestrator progress event into the TUI.
// The CLI sends these with Program.Send while the pass runs.
type EventMsg struct {
	Event orchestrator.Event
}

// RunDoneMsg carries the finished report (or the run error).
type RunDoneMsg struct {
	Report *domain.RunReport
	Err    error
}
