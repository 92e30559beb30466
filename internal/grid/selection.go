package grid

import (
	"slices"

	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

// Direction is a cursor move.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// ParseDirection maps "up"/"down"/"left"/"right" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

// Move shifts the cursor one cell, stopping at the edges.
func (g *Grid) Move(d Direction) {
	switch d {
	case Up:
		g.Cursor.Row = max(g.Cursor.Row-1, 0)
	case Down:
		g.Cursor.Row = min(g.Cursor.Row+1, Size-1)
	case Left:
		g.Cursor.Col = max(g.Cursor.Col-1, 0)
	case Right:
		g.Cursor.Col = min(g.Cursor.Col+1, Size-1)
	}
}

// Toggle selects c, or deselects it if it is already selected.
func (g *Grid) Toggle(c Coord) error {
	if !c.Valid() {
		return ErrOutOfBounds
	}
	if g.deselect(c) {
		return nil
	}
	if len(g.selected) >= MaxSelected {
		return ErrSelectionFull
	}
	if g.cells[c.Row][c.Col].Retired {
		return ErrCellUnavailable
	}
	g.selected = append(g.selected, c)
	return nil
}

func (g *Grid) deselect(c Coord) bool {
	i := slices.Index(g.selected, c)
	if i < 0 {
		return false
	}
	g.selected = slices.Delete(g.selected, i, i+1)
	return true
}

// Clear empties the selection.
func (g *Grid) Clear() { g.selected = g.selected[:0] }

// IsSelected reports whether c is in the selection.
func (g *Grid) IsSelected(c Coord) bool { return slices.Contains(g.selected, c) }

// Selected returns the selected coordinates in the order they were picked.
func (g *Grid) Selected() []Coord { return slices.Clone(g.selected) }

// SelectedWords returns the words under the selection, in pick order.
func (g *Grid) SelectedWords() []puzzle.Word {
	out := make([]puzzle.Word, 0, len(g.selected))
	for _, c := range g.selected {
		out = append(out, g.cells[c.Row][c.Col].Word)
	}
	return out
}

// Phase reports how far the selection is from a submittable guess.
func (g *Grid) Phase() Phase {
	switch n := len(g.selected); {
	case n == 0:
		return Idle
	case n < MaxSelected:
		return Selecting
	default:
		return Ready
	}
}
