// Package render turns wall state into lipgloss-styled strings. Every
// function is pure: the same inputs give the same output.
package render

import (
	styles "github.com/charmbracelet/lipgloss"
)

var (
	goldColor     = styles.AdaptiveColor{Light: "#B8860B", Dark: "#FFD700"}
	blueColor     = styles.AdaptiveColor{Light: "#1E6FD9", Dark: "#3B82F6"}
	cyanColor     = styles.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	greenColor    = styles.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
	redColor      = styles.AdaptiveColor{Light: "1", Dark: "9"}
	pinkColor     = styles.AdaptiveColor{Light: "#BE185D", Dark: "#F472B6"}
	borderColor   = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	selectedColor = styles.AdaptiveColor{Light: "0", Dark: "9"}

	goldFg     = styles.NewStyle().Foreground(goldColor)
	blueFg     = styles.NewStyle().Foreground(blueColor)
	cyanFg     = styles.NewStyle().Foreground(cyanColor)
	greenFg    = styles.NewStyle().Foreground(greenColor)
	redFg      = styles.NewStyle().Foreground(redColor)
	particleFg = styles.NewStyle().Foreground(pinkColor)
	borderFg   = styles.NewStyle().Foreground(borderColor)
	boldFg     = styles.NewStyle().Bold(true)

	cellStyle = styles.NewStyle().
			BorderStyle(styles.RoundedBorder()).
			BorderForeground(borderColor).
			Align(styles.Center)
	panelStyle = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

// CellWidth is the default outer width of one slot, borders included.
const CellWidth = 18

// cellLines is the number of text lines inside a slot box.
const cellLines = 4
