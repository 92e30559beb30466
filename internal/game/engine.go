// internal/game/engine.go
//
// Game engine for a single Connections session.
// Responsibilities:
//   - Create sessions from a validated puzzle with a shuffled grid.
//   - Drive cursor/selection operations on the session's grid.
//   - Evaluate guesses, track mistakes and solved categories.
//   - Track status transitions: playing → won/lost, and back on restart.
//
// Notes:
//   - A Session is not safe for concurrent use; callers serialize access
//     (see store.Update).
//   - Every operation except Restart is rejected with ErrSessionFinished
//     once the game is over, and leaves the session untouched.
package game

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/robalobadob/connections/apps/go-server/internal/grid"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

// DefaultMaxMistakes matches the daily puzzle's four-mistake budget.
const DefaultMaxMistakes = 4

var (
	ErrSessionFinished     = errors.New("session finished")
	ErrIncompleteSelection = errors.New("incomplete selection")

	// Re-exported so callers only need this package to classify errors.
	ErrSelectionFull   = grid.ErrSelectionFull
	ErrCellUnavailable = grid.ErrCellUnavailable
	ErrOutOfBounds     = grid.ErrOutOfBounds
)

const (
	eventWin     = "win"
	eventLose    = "lose"
	eventRestart = "restart"
)

// Option configures a new Session.
type Option func(*Session)

// WithMaxMistakes overrides DefaultMaxMistakes. Values below 1 are ignored.
func WithMaxMistakes(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.MaxMistakes = n
		}
	}
}

// WithSeed makes every shuffle of the session reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewPCG(seed, seed>>1|1)) }
}

// New starts a session on p with a freshly shuffled grid.
func New(p *puzzle.Puzzle, opts ...Option) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		Puzzle:      p,
		MaxMistakes: DefaultMaxMistakes,
		CreatedAt:   time.Now().UTC(),
		order:       make([]int, 0, puzzle.CategoryCount),
		status:      newStatusFSM(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(randomSeed(), randomSeed()))
	}
	s.grid = grid.Build(p, s.rng)
	return s
}

func newStatusFSM() *fsm.FSM {
	return fsm.NewFSM(
		string(StatusPlaying),
		fsm.Events{
			{Name: eventWin, Src: []string{string(StatusPlaying)}, Dst: string(StatusWon)},
			{Name: eventLose, Src: []string{string(StatusPlaying)}, Dst: string(StatusLost)},
			{Name: eventRestart, Src: []string{string(StatusWon), string(StatusLost)}, Dst: string(StatusPlaying)},
		},
		fsm.Callbacks{},
	)
}

func randomSeed() uint64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Status reports the current session status.
func (s *Session) Status() Status { return Status(s.status.Current()) }

// Finished reports whether the game has been won or lost.
func (s *Session) Finished() bool { return s.Status() != StatusPlaying }

// MoveCursor moves the grid cursor one cell, clamped to the board.
func (s *Session) MoveCursor(d grid.Direction) error {
	if s.Finished() {
		return ErrSessionFinished
	}
	s.grid.Move(d)
	return nil
}

// Toggle selects or deselects the cell at c.
func (s *Session) Toggle(c grid.Coord) error {
	if s.Finished() {
		return ErrSessionFinished
	}
	return s.grid.Toggle(c)
}

// ToggleCursor toggles the cell under the cursor.
func (s *Session) ToggleCursor() error { return s.Toggle(s.grid.Cursor) }

// ClearSelection deselects every cell.
func (s *Session) ClearSelection() error {
	if s.Finished() {
		return ErrSessionFinished
	}
	s.grid.Clear()
	return nil
}

// Reshuffle redraws cell positions. Progress and selection are kept.
func (s *Session) Reshuffle() error {
	if s.Finished() {
		return ErrSessionFinished
	}
	s.grid.Shuffle(s.rng)
	return nil
}

// Restart replays the same puzzle from scratch with a new shuffle.
// It is the only operation allowed on a finished session.
func (s *Session) Restart() error {
	if s.Finished() {
		if err := s.status.Event(context.Background(), eventRestart); err != nil {
			return err
		}
	}
	s.solved = [puzzle.CategoryCount]bool{}
	s.order = s.order[:0]
	s.mistakes = 0
	s.guesses = 0
	s.grid.Reset()
	s.grid.Shuffle(s.rng)
	return nil
}

// SubmitGuess evaluates the four selected cells.
//
// All four in one unsolved category: the category is solved, its cells
// retired and the game is won once every category is solved.
// Anything else costs one mistake, repeated guesses included, and the
// game is lost when mistakes reach MaxMistakes. The selection is cleared
// in both cases.
func (s *Session) SubmitGuess() (GuessResult, error) {
	if s.Finished() {
		return GuessResult{}, ErrSessionFinished
	}
	if s.grid.Phase() != grid.Ready {
		return GuessResult{}, ErrIncompleteSelection
	}

	words := s.grid.SelectedWords()
	var counts [puzzle.CategoryCount]int
	for _, w := range words {
		ci, err := s.Puzzle.CategoryIndex(w.Text)
		if err != nil {
			return GuessResult{}, err
		}
		counts[ci]++
	}
	best := 0
	for ci, n := range counts {
		if n > counts[best] {
			best = ci
		}
	}

	s.guesses++
	var res GuessResult
	if counts[best] == grid.MaxSelected && !s.solved[best] {
		s.solved[best] = true
		s.order = append(s.order, best)
		cat := s.Puzzle.Categories[best]
		for _, w := range cat.Words {
			s.grid.Retire(w.Text)
		}
		s.grid.Clear()
		res.Correct = true
		res.Category = &puzzle.Ranked{Category: cat, Difficulty: puzzle.DifficultyOf(best)}
		if len(s.order) == puzzle.CategoryCount {
			if err := s.status.Event(context.Background(), eventWin); err != nil {
				return GuessResult{}, err
			}
		}
	} else {
		s.mistakes++
		s.grid.Clear()
		res.OneAway = counts[best] == grid.MaxSelected-1
		if s.mistakes >= s.MaxMistakes {
			if err := s.status.Event(context.Background(), eventLose); err != nil {
				return GuessResult{}, err
			}
		}
	}
	res.Status = s.Status()
	res.MistakesRemaining = s.MistakesRemaining()
	return res, nil
}

// MistakesMade reports the number of wrong guesses so far.
func (s *Session) MistakesMade() int { return s.mistakes }

// MistakesRemaining reports MaxMistakes minus mistakes made.
func (s *Session) MistakesRemaining() int { return s.MaxMistakes - s.mistakes }

// Solved returns the solved categories in solve order.
func (s *Session) Solved() []puzzle.Ranked {
	out := make([]puzzle.Ranked, 0, len(s.order))
	for _, ci := range s.order {
		out = append(out, puzzle.Ranked{Category: s.Puzzle.Categories[ci], Difficulty: puzzle.DifficultyOf(ci)})
	}
	return out
}

// IsSolved reports whether the category with the given title is solved.
func (s *Session) IsSolved(title string) bool {
	for ci, c := range s.Puzzle.Categories {
		if c.Title == title {
			return s.solved[ci]
		}
	}
	return false
}

// Phase reports the selection sub-state.
func (s *Session) Phase() grid.Phase { return s.grid.Phase() }

// Snapshot copies everything a renderer needs.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:                s.ID,
		Status:            s.Status(),
		Phase:             s.grid.Phase(),
		MistakesMade:      s.mistakes,
		MistakesRemaining: s.MistakesRemaining(),
		MaxMistakes:       s.MaxMistakes,
		Guesses:           s.guesses,
		Cursor:            s.grid.Cursor,
		Selected:          s.grid.Selected(),
		Solved:            s.Solved(),
		PuzzleID:          s.Puzzle.ID,
		PrintDate:         s.Puzzle.PrintDate,
		Editor:            s.Puzzle.Editor,
	}
	for r, row := range s.grid.Cells() {
		for c, cell := range row {
			coord := grid.Coord{Row: r, Col: c}
			v := CellView{Text: cell.Word.Text, Coord: coord, Selected: s.grid.IsSelected(coord)}
			if cell.Retired {
				// Retired words always belong to the puzzle.
				ci, _ := s.Puzzle.CategoryIndex(cell.Word.Text)
				v.Solved = true
				v.Category = s.Puzzle.Categories[ci].Title
				v.Difficulty = puzzle.DifficultyOf(ci)
			}
			snap.Cells[r][c] = v
		}
	}
	return snap
}
