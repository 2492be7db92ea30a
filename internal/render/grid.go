package render

import (
	"fmt"
	"strings"

	styles "github.com/charmbracelet/lipgloss"

	"github.com/keilerkonzept/sponsorwall/internal/content"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
	"github.com/keilerkonzept/sponsorwall/internal/wall"
)

type GridOptions struct {
	CellWidth int
	Pricing   content.Pricing
	// Cursor is the ordinal under the keyboard cursor, 0 for none.
	Cursor int
}

// Grid lays out every cell of g in rows.
func Grid(g wall.Grid, opts GridOptions) string {
	rows := make([]string, 0, g.Shape.Rows)
	for _, row := range g.Rows() {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, Slot(g.Layer, c, SlotOptions{
				Width:   opts.CellWidth,
				Pricing: opts.Pricing,
				Cursor:  c.Ordinal == opts.Cursor,
			}))
		}
		rows = append(rows, styles.JoinHorizontal(styles.Top, cells...))
	}
	return styles.JoinVertical(styles.Left, rows...)
}

// LayerBar shows the four layer buttons with the current one highlighted.
func LayerBar(current domain.Layer) string {
	tabs := make([]string, 0, len(domain.Layers))
	for _, l := range domain.Layers {
		label := fmt.Sprintf(" %d %s ", int(l), l.String())
		if l == current {
			tabs = append(tabs, styles.NewStyle().Reverse(true).Bold(true).Render(label))
			continue
		}
		tabs = append(tabs, borderFg.Render(label))
	}
	return strings.Join(tabs, borderFg.Render("│"))
}

// Title is the heading line above the grid.
func Title(l domain.Layer, active int) string {
	heading := goldFg.Bold(true).Render("5D SPONSOR WALL")
	sub := borderFg.Render(fmt.Sprintf("%s · %d active", l.String(), active))
	return heading + "  " + sub
}
