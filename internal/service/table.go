package service

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"moviebot/internal/domain"
)

// RenderTable formats matches as a plain-text table with the fixed display columns.
func RenderTable(matches []domain.Match) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(domain.DisplayColumns...)
	for _, m := range matches {
		t.Row(m.Movie.DisplayRow()...)
	}
	return t.String()
}
