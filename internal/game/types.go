// internal/game/types.go
//
// Core type definitions for the Connections game engine.
// Defines:
//   - Status: coarse session state (playing/won/lost).
//   - GuessResult: outcome of one submitted guess.
//   - Snapshot/CellView: read-only view handed to the presentation layer.
//   - Session: state for a single in-progress or finished game.

package game

import (
	"math/rand/v2"
	"time"

	"github.com/looplab/fsm"

	"github.com/robalobadob/connections/apps/go-server/internal/grid"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

// Status is the coarse state of a session.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// GuessResult describes the outcome of SubmitGuess.
type GuessResult struct {
	Correct           bool           // all four words shared an unsolved category
	OneAway           bool           // wrong, but three of the four shared a category
	Category          *puzzle.Ranked // solved category when Correct
	Status            Status
	MistakesRemaining int
}

// CellView is one grid cell as seen by a renderer.
type CellView struct {
	Text       string
	Coord      grid.Coord
	Selected   bool
	Solved     bool
	Category   string            // set once solved
	Difficulty puzzle.Difficulty // meaningful only when Solved
}

// Snapshot is a point-in-time copy of a session for rendering.
type Snapshot struct {
	ID                string
	Status            Status
	Phase             grid.Phase
	MistakesMade      int
	MistakesRemaining int
	MaxMistakes       int
	Guesses           int
	Cursor            grid.Coord
	Selected          []grid.Coord
	Cells             [grid.Size][grid.Size]CellView
	Solved            []puzzle.Ranked // in solve order
	PuzzleID          int
	PrintDate         string
	Editor            string
}

// Session holds the state of a single Connections game.
type Session struct {
	ID          string         // Unique session identifier (uuid).
	Puzzle      *puzzle.Puzzle // The day's puzzle; never mutated.
	MaxMistakes int            // Wrong guesses allowed before the game is lost.
	CreatedAt   time.Time

	grid     *grid.Grid
	solved   [puzzle.CategoryCount]bool
	order    []int // category indexes in the order they were solved
	mistakes int
	guesses  int
	status   *fsm.FSM
	rng      *rand.Rand
}
