package httpserver

import (
	"github.com/robalobadob/connections/apps/go-server/internal/game"
	"github.com/robalobadob/connections/apps/go-server/internal/grid"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

// Palette maps a difficulty to the color a client paints solved groups with.
type Palette func(puzzle.Difficulty) string

// DefaultPalette is the daily puzzle's yellow/green/blue/purple scheme.
func DefaultPalette(d puzzle.Difficulty) string {
	switch d {
	case puzzle.Straightforward:
		return "yellow"
	case puzzle.Medium:
		return "green"
	case puzzle.Hard:
		return "blue"
	default:
		return "purple"
	}
}

type cellRes struct {
	Text       string `json:"text"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Selected   bool   `json:"selected"`
	Solved     bool   `json:"solved"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Color      string `json:"color,omitempty"`
}

type categoryRes struct {
	Title      string   `json:"title"`
	Words      []string `json:"words"`
	Difficulty string   `json:"difficulty"`
	Color      string   `json:"color"`
}

type puzzleRes struct {
	ID        int    `json:"id"`
	PrintDate string `json:"printDate"`
	Editor    string `json:"editor"`
}

// stateRes is the full game view returned by every /game endpoint.
type stateRes struct {
	GameID            string        `json:"gameId"`
	Status            game.Status   `json:"status"` // playing | won | lost
	Phase             string        `json:"phase"`  // idle | selecting | ready
	MistakesMade      int           `json:"mistakesMade"`
	MistakesRemaining int           `json:"mistakesRemaining"`
	MaxMistakes       int           `json:"maxMistakes"`
	Guesses           int           `json:"guesses"`
	Cursor            grid.Coord    `json:"cursor"`
	Selected          []grid.Coord  `json:"selected"`
	Grid              [][]cellRes   `json:"grid"`
	Solved            []categoryRes `json:"solved"`
	Answers           []categoryRes `json:"answers,omitempty"` // revealed once the game is over
	Puzzle            puzzleRes     `json:"puzzle"`
}

func rankedRes(r puzzle.Ranked, paint Palette) categoryRes {
	words := make([]string, 0, len(r.Category.Words))
	for _, w := range r.Category.Words {
		words = append(words, w.Text)
	}
	return categoryRes{
		Title:      r.Category.Title,
		Words:      words,
		Difficulty: r.Difficulty.String(),
		Color:      paint(r.Difficulty),
	}
}

// buildState renders a session for the client.
func buildState(s *game.Session, paint Palette) stateRes {
	snap := s.Snapshot()
	out := stateRes{
		GameID:            snap.ID,
		Status:            snap.Status,
		Phase:             snap.Phase.String(),
		MistakesMade:      snap.MistakesMade,
		MistakesRemaining: snap.MistakesRemaining,
		MaxMistakes:       snap.MaxMistakes,
		Guesses:           snap.Guesses,
		Cursor:            snap.Cursor,
		Selected:          snap.Selected,
		Grid:              make([][]cellRes, 0, grid.Size),
		Solved:            make([]categoryRes, 0, len(snap.Solved)),
		Puzzle:            puzzleRes{ID: snap.PuzzleID, PrintDate: snap.PrintDate, Editor: snap.Editor},
	}
	if out.Selected == nil {
		out.Selected = []grid.Coord{}
	}
	for _, row := range snap.Cells {
		cells := make([]cellRes, 0, grid.Size)
		for _, c := range row {
			cr := cellRes{Text: c.Text, Row: c.Coord.Row, Col: c.Coord.Col, Selected: c.Selected, Solved: c.Solved}
			if c.Solved {
				cr.Category = c.Category
				cr.Difficulty = c.Difficulty.String()
				cr.Color = paint(c.Difficulty)
			}
			cells = append(cells, cr)
		}
		out.Grid = append(out.Grid, cells)
	}
	for _, r := range snap.Solved {
		out.Solved = append(out.Solved, rankedRes(r, paint))
	}
	if snap.Status != game.StatusPlaying {
		for _, r := range s.Puzzle.WithDifficulties() {
			out.Answers = append(out.Answers, rankedRes(r, paint))
		}
	}
	return out
}
