package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.selectedRow < len(m.specs)-1 {
				m.selectedRow++
			}
		case "k", "up":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		if m.finished {
			return m, nil
		}
		return m, tickCmd()

	case EventMsg:
		row := m.rows[msg.Event.Key]
		if msg.Event.Processing {
			row.Processing = true
		} else {
			row.Processing = false
			row.Status = msg.Event.Status
			row.Message = msg.Event.Message
			row.Artifacts = len(msg.Event.Artifacts)
		}
		m.rows[msg.Event.Key] = row

	case RunDoneMsg:
		m.finished = true
		m.report = msg.Report
		if msg.Err != nil && m.report == nil {
			// Setup failure before any domain ran; nothing to show.
			return m, tea.Quit
		}
	}

	return m, nil
}
