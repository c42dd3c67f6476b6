package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows under headers with the nicctl palette.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleTableBorder).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTableHeader
			}
			return StyleTableRow
		}).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

// KeyValues renders label/value pairs as a two-column table without
// headers.
func KeyValues(pairs [][2]string) string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{StyleTitle.Render(p[0]), p[1]})
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(int, int) lipgloss.Style { return StyleTableRow }).
		Rows(rows...)
	return t.Render()
}
