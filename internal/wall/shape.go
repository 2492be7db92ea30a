package wall

import "github.com/keilerkonzept/sponsorwall/internal/domain"

const (
	wideColumns = 5
	wideSlots   = 24
)

// GridShape is the layout of one layer's grid. Slots can be smaller than
// Cols*Rows; the last row is then partially filled.
type GridShape struct {
	Cols  int
	Rows  int
	Slots int
}

// Position returns the zero-based row and column of ordinal.
func (g GridShape) Position(ordinal int) (row, col int) {
	return (ordinal - 1) / g.Cols, (ordinal - 1) % g.Cols
}

// Ordinal is the inverse of Position. It returns 0 for cells past the last
// slot.
func (g GridShape) Ordinal(row, col int) int {
	if row < 0 || col < 0 || col >= g.Cols {
		return 0
	}
	n := row*g.Cols + col + 1
	if n > g.Slots {
		return 0
	}
	return n
}

func (g GridShape) Contains(ordinal int) bool {
	return ordinal >= 1 && ordinal <= g.Slots
}

// Shape returns the grid of a layer: a 5x5 wall for the static layer, a 4x4
// product grid for the AR layer, and five columns of 24 slots otherwise.
func Shape(l domain.Layer) GridShape {
	switch l {
	case domain.LayerStatic:
		return GridShape{Cols: 5, Rows: 5, Slots: 25}
	case domain.LayerAR:
		return GridShape{Cols: 4, Rows: 4, Slots: 16}
	default:
		return GridShape{Cols: wideColumns, Rows: (wideSlots + wideColumns - 1) / wideColumns, Slots: wideSlots}
	}
}
