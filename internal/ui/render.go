package ui

import "github.com/charmbracelet/lipgloss"

// RenderPass styles a passing-check marker, plain when color is disabled.
func RenderPass(s string) string {
	if !ShouldUseColor() {
		return s
	}
	return lipgloss.NewStyle().Foreground(ColorPass).Render(s)
}

// RenderFail styles a failing-check marker, plain when color is disabled.
func RenderFail(s string) string {
	if !ShouldUseColor() {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Foreground(ColorFail).Render(s)
}
