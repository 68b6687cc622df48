package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive so tables stay readable on light terminals.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}   // blue
	ColorPass   = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}   // green
	ColorWarn   = lipgloss.AdaptiveColor{Light: "130", Dark: "214"} // orange
	ColorFail   = lipgloss.AdaptiveColor{Light: "124", Dark: "203"} // red
	ColorMuted  = lipgloss.AdaptiveColor{Light: "245", Dark: "240"} // gray
)
