package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/rank"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

// RenderPicks renders the ranked worklist as a table, best pick first.
func RenderPicks(picks []rank.Pick, width int) string {
	if len(picks) == 0 {
		return TableHintStyle.Render("No candidates to pick from. Run `triage update` first.")
	}

	rows := make([][]string, 0, len(picks))
	for _, p := range picks {
		c := p.Record.Classification
		rows = append(rows, []string{
			"#" + strconv.FormatInt(p.Record.ID, 10),
			strconv.Itoa(p.Score),
			c.Difficulty,
			c.SkillMatch,
			c.TestFocused,
			truncate(p.Record.Title, 60),
		})
	}

	t := newTable(width).
		Headers("Issue", "Score", "Difficulty", "Skill", "Tests", "Title").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 1 {
				return cellStyle.Foreground(ColorAccent)
			}
			return cellStyle
		})

	out := t.String()
	if top := picks[0]; top.Record.URL != "" {
		out += "\n" + TableHintStyle.Render(fmt.Sprintf("Top pick: %s", top.Record.URL))
	}
	return out
}

// RenderTicket renders one ledger record in full, for `triage status`-style
// inspection output.
func RenderTicket(rec *ticket.Record, width int) string {
	rows := [][]string{
		{"Status", string(rec.Status)},
		{"Title", truncate(rec.Title, width-20)},
		{"URL", rec.URL},
	}
	if rec.Classification != nil {
		c := rec.Classification
		rows = append(rows,
			[]string{"Difficulty", c.Difficulty},
			[]string{"Skill match", c.SkillMatch},
			[]string{"Scope", c.ScopeClarity},
			[]string{"Test focused", c.TestFocused},
			[]string{"Reason", truncate(c.Reason, width-20)},
		)
	}
	if rec.ManualConfidence != "" {
		rows = append(rows, []string{"Confidence", rec.ManualConfidence})
	}
	if rec.Notes != "" {
		rows = append(rows, []string{"Notes", truncate(rec.Notes, width-20)})
	}
	if rec.NeedsRetriage {
		rows = append(rows, []string{"Retriage", TableWarningStyle.Render("pending")})
	}

	return newTable(width).
		Headers(fmt.Sprintf("Issue #%d", rec.ID), "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 0 {
				return cellStyle.Foreground(ColorMuted)
			}
			return cellStyle
		}).
		String()
}

func truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
