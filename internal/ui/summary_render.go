package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/triage"
)

// RenderSummary renders the result of a triage pass.
func RenderSummary(s *triage.Summary, width int) string {
	rows := [][]string{
		{"Fetched", strconv.Itoa(s.Fetched)},
		{"Unchanged", strconv.Itoa(s.Unchanged)},
		{"Classified", strconv.Itoa(s.Classified)},
		{"Degraded", strconv.Itoa(s.Degraded)},
		{"Deferred", strconv.Itoa(s.Deferred)},
		{"Candidates", strconv.Itoa(s.Candidates)},
		{"Filtered out", strconv.Itoa(s.Filtered)},
	}
	if s.Conflicts > 0 {
		rows = append(rows, []string{"Manual-field conflicts", strconv.Itoa(s.Conflicts)})
	}

	return newTable(width).
		Headers("Triage pass", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 0 {
				return cellStyle.Foreground(ColorMuted)
			}
			switch rows[row][0] {
			case "Degraded", "Deferred", "Manual-field conflicts":
				if rows[row][1] != "0" {
					return cellStyle.Foreground(ColorWarn)
				}
			case "Candidates":
				return cellStyle.Foreground(ColorPass)
			}
			return cellStyle
		}).
		String()
}
