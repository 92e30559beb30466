// internal/grid/grid.go
//
// The 4x4 on-screen arrangement of a puzzle's words.
// Responsibilities:
//   - Build a shuffled grid from a puzzle and reshuffle it on demand.
//   - Positional lookup (row/col → word).
//   - Cursor movement, clamped to the board.
//   - Selection bookkeeping: up to four cells, insertion order preserved.
//   - Retiring the cells of solved categories (they stay put but can no longer be selected).
//
// Notes:
//   - Randomness is injected (*rand.Rand) so shuffles are reproducible under a seed.
//   - Guess evaluation lives in the game package; this package knows nothing of categories.
package grid

import (
	"errors"
	"math/rand/v2"

	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

// Size is the grid dimension.
const Size = 4

// MaxSelected is the number of cells that make a guess.
const MaxSelected = 4

var (
	ErrOutOfBounds     = errors.New("coordinate out of bounds")
	ErrSelectionFull   = errors.New("selection full")
	ErrCellUnavailable = errors.New("cell unavailable")
)

// Coord addresses one cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid reports whether c lies on the grid.
func (c Coord) Valid() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// Cell is one grid slot.
type Cell struct {
	Word    puzzle.Word
	Retired bool // its category has been solved
}

// Phase is the selection sub-state of an in-progress game.
type Phase int

const (
	Idle      Phase = iota // nothing selected
	Selecting              // 1–3 selected
	Ready                  // 4 selected, a guess can be submitted
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	default:
		return "ready"
	}
}

// Grid holds the cells, the cursor and the current selection.
type Grid struct {
	cells    [Size][Size]Cell
	Cursor   Coord
	selected []Coord
}

// Build lays out the puzzle's words in category order and shuffles them.
func Build(p *puzzle.Puzzle, rng *rand.Rand) *Grid {
	g := &Grid{selected: make([]Coord, 0, MaxSelected)}
	for i, w := range p.Words() {
		g.cells[i/Size][i%Size] = Cell{Word: w}
	}
	g.Shuffle(rng)
	return g
}

// Shuffle draws a fresh uniform permutation of all 16 cells.
// Retired flags move with their words and selected words stay selected
// at their new coordinates.
func (g *Grid) Shuffle(rng *rand.Rand) {
	picked := g.SelectedWords()

	flat := g.flat()
	rng.Shuffle(len(flat), func(i, j int) { flat[i], flat[j] = flat[j], flat[i] })
	for i, c := range flat {
		g.cells[i/Size][i%Size] = c
	}

	g.selected = g.selected[:0]
	for _, w := range picked {
		if c, ok := g.find(w.Text); ok {
			g.selected = append(g.selected, c)
		}
	}
}

func (g *Grid) flat() []Cell {
	out := make([]Cell, 0, Size*Size)
	for r := range Size {
		out = append(out, g.cells[r][:]...)
	}
	return out
}

func (g *Grid) find(text string) (Coord, bool) {
	for r := range Size {
		for c := range Size {
			if g.cells[r][c].Word.Text == text {
				return Coord{Row: r, Col: c}, true
			}
		}
	}
	return Coord{}, false
}

// WordAt returns the word at (row, col).
func (g *Grid) WordAt(row, col int) (puzzle.Word, error) {
	c := Coord{Row: row, Col: col}
	if !c.Valid() {
		return puzzle.Word{}, ErrOutOfBounds
	}
	return g.cells[row][col].Word, nil
}

// CellAt returns the cell at c.
func (g *Grid) CellAt(c Coord) (Cell, error) {
	if !c.Valid() {
		return Cell{}, ErrOutOfBounds
	}
	return g.cells[c.Row][c.Col], nil
}

// Cells returns a copy of the board.
func (g *Grid) Cells() [Size][Size]Cell { return g.cells }

// Retire marks the cells holding the given words as no longer selectable.
// Any of them that are selected are dropped from the selection.
func (g *Grid) Retire(texts ...string) {
	for _, t := range texts {
		c, ok := g.find(t)
		if !ok {
			continue
		}
		g.cells[c.Row][c.Col].Retired = true
		g.deselect(c)
	}
}

// Reset reactivates every cell and clears the selection and cursor.
func (g *Grid) Reset() {
	for r := range Size {
		for c := range Size {
			g.cells[r][c].Retired = false
		}
	}
	g.selected = g.selected[:0]
	g.Cursor = Coord{}
}
