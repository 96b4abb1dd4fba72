package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/psychometrika/reportforge/internal/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	statusStyles = map[domain.GenerationStatus]lipgloss.Style{
		domain.StatusGenerated: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		domain.StatusCached:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		domain.StatusProtected: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domain.StatusSkipped:   dimStyle,
		domain.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// View renders the dashboard
func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("reportforge — %s", m.subject)
	if m.subject == "" {
		header = "reportforge"
	}
	b.WriteString(titleStyle.Render(header))
	if !m.finished {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  running %s", time.Since(m.started).Round(time.Second))))
	}
	b.WriteString("\n\n")

	for i, spec := range m.specs {
		row := m.rows[spec.Key]
		line := fmt.Sprintf("%2d  %-14s %s", spec.SectionOrdinal, spec.Key, m.statusCell(row))
		if i == m.selectedRow {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.finished && m.report != nil {
		b.WriteString(m.report.Summary())
		b.WriteString("\n")
		for _, msg := range m.report.Failures() {
			b.WriteString(statusStyles[domain.StatusFailed].Render("  ✗ " + msg))
			b.WriteString("\n")
		}
	}
	b.WriteString(footerStyle.Render("j/k move · q quit"))

	return b.String()
}

func (m Model) statusCell(row rowState) string {
	if row.Processing {
		return "processing…"
	}
	if row.Status == "" {
		return dimStyle.Render("pending")
	}
	cell := string(row.Status)
	if row.Artifacts > 1 {
		cell = fmt.Sprintf("%s (%d artifacts)", cell, row.Artifacts)
	}
	if style, ok := statusStyles[row.Status]; ok {
		cell = style.Render(cell)
	}
	return cell
}
