package puzzle

// Difficulty ranks the four categories of a puzzle.
// It is assigned positionally: the Nth category has difficulty N.
type Difficulty int

const (
	Straightforward Difficulty = iota
	Medium
	Hard
	Tricky
)

func (d Difficulty) String() string {
	switch d {
	case Straightforward:
		return "straightforward"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Tricky:
		return "tricky"
	default:
		return "unknown"
	}
}

// Ranked pairs a category with its difficulty.
type Ranked struct {
	Category   Category
	Difficulty Difficulty
}

// DifficultyOf returns the difficulty of the category at index ci.
func DifficultyOf(ci int) Difficulty { return Difficulty(ci) }

// WithDifficulties pairs every category with its positional difficulty.
// It does not modify the puzzle.
func (p *Puzzle) WithDifficulties() []Ranked {
	out := make([]Ranked, 0, CategoryCount)
	for ci, c := range p.Categories {
		out = append(out, Ranked{Category: c, Difficulty: DifficultyOf(ci)})
	}
	return out
}
