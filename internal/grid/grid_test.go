package grid

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle/puzzletest"
)

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

func texts(g *Grid) []string {
	var out []string
	for _, row := range g.Cells() {
		for _, c := range row {
			out = append(out, c.Word.Text)
		}
	}
	return out
}

func wantTexts(p *puzzle.Puzzle) []string {
	var out []string
	for _, w := range p.Words() {
		out = append(out, w.Text)
	}
	return out
}

func sameMultiset(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func TestBuild_IsPermutation(t *testing.T) {
	p := puzzletest.New(t)
	for seed := range uint64(50) {
		g := Build(p, seeded(seed))
		if got := texts(g); !sameMultiset(got, wantTexts(p)) {
			t.Fatalf("seed %d: grid %v is not a permutation of the puzzle words", seed, got)
		}
		if g.Phase() != Idle || g.Cursor != (Coord{}) {
			t.Fatalf("seed %d: fresh grid not idle at origin", seed)
		}
	}
}

func TestShuffle_Bijection(t *testing.T) {
	p := puzzletest.New(t)
	rng := seeded(7)
	g := Build(p, rng)
	for i := 0; i < 100; i++ {
		before := texts(g)
		g.Shuffle(rng)
		if !sameMultiset(before, texts(g)) {
			t.Fatalf("shuffle %d changed the multiset of words", i)
		}
	}
}

func TestShuffle_Uniform(t *testing.T) {
	const trials = 16000
	p := puzzletest.New(t)
	rng := seeded(42)
	g := Build(p, rng)

	var counts [Size * Size]int
	for i := 0; i < trials; i++ {
		g.Shuffle(rng)
		c, ok := g.find("FAST")
		if !ok {
			t.Fatal("FAST missing after shuffle")
		}
		counts[c.Row*Size+c.Col]++
	}

	// Chi-square over 16 cells (15 degrees of freedom); 60 is far past p=0.001.
	expected := float64(trials) / float64(Size*Size)
	var chi float64
	for _, n := range counts {
		d := float64(n) - expected
		chi += d * d / expected
	}
	if chi > 60 {
		t.Fatalf("placement of FAST not uniform: chi2=%.1f counts=%v", chi, counts)
	}
}

func TestShuffle_KeepsRetiredAndSelection(t *testing.T) {
	p := puzzletest.New(t)
	rng := seeded(3)
	g := Build(p, rng)

	g.Retire("FAST", "FIRM", "SECURE", "TIGHT")
	a, _ := g.find("ACCOUNT")
	b, _ := g.find("MOVIE")
	if err := g.Toggle(a); err != nil {
		t.Fatal(err)
	}
	if err := g.Toggle(b); err != nil {
		t.Fatal(err)
	}

	g.Shuffle(rng)

	retired := 0
	for _, row := range g.Cells() {
		for _, c := range row {
			if c.Retired {
				retired++
				if cat, _ := p.CategoryIndex(c.Word.Text); cat != 0 {
					t.Fatalf("retired flag moved to %q", c.Word.Text)
				}
			}
		}
	}
	if retired != 4 {
		t.Fatalf("retired cells = %d, want 4", retired)
	}

	words := g.SelectedWords()
	if len(words) != 2 || words[0].Text != "ACCOUNT" || words[1].Text != "MOVIE" {
		t.Fatalf("selection after shuffle = %v, want [ACCOUNT MOVIE]", words)
	}
}

func TestWordAt(t *testing.T) {
	p := puzzletest.New(t)
	g := Build(p, seeded(1))

	w, err := g.WordAt(2, 3)
	if err != nil {
		t.Fatalf("WordAt(2,3): %v", err)
	}
	if w != g.Cells()[2][3].Word {
		t.Fatalf("WordAt(2,3) = %v, want %v", w, g.Cells()[2][3].Word)
	}

	for _, c := range []Coord{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if _, err := g.WordAt(c.Row, c.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("WordAt(%d,%d) err = %v, want ErrOutOfBounds", c.Row, c.Col, err)
		}
	}
}

func TestMove_Clamps(t *testing.T) {
	g := &Grid{}
	g.Move(Up)
	g.Move(Left)
	if g.Cursor != (Coord{0, 0}) {
		t.Fatalf("cursor wrapped from origin: %v", g.Cursor)
	}
	for i := 0; i < 10; i++ {
		g.Move(Down)
		g.Move(Right)
	}
	if g.Cursor != (Coord{3, 3}) {
		t.Fatalf("cursor = %v, want {3 3}", g.Cursor)
	}
	g.Move(Left)
	g.Move(Up)
	if g.Cursor != (Coord{2, 2}) {
		t.Fatalf("cursor = %v, want {2 2}", g.Cursor)
	}
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	p := puzzletest.New(t)
	g := Build(p, seeded(9))
	before := g.Cells()

	c := Coord{1, 2}
	if err := g.Toggle(c); err != nil {
		t.Fatal(err)
	}
	if g.Phase() != Selecting || !g.IsSelected(c) {
		t.Fatalf("after first toggle: phase=%v selected=%v", g.Phase(), g.Selected())
	}
	if err := g.Toggle(c); err != nil {
		t.Fatal(err)
	}
	if g.Phase() != Idle || len(g.Selected()) != 0 {
		t.Fatalf("after second toggle: phase=%v selected=%v", g.Phase(), g.Selected())
	}
	if g.Cells() != before {
		t.Fatal("toggle changed the cells")
	}
}

func TestToggle_FifthFails(t *testing.T) {
	p := puzzletest.New(t)
	g := Build(p, seeded(11))
	picks := []Coord{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	for _, c := range picks {
		if err := g.Toggle(c); err != nil {
			t.Fatalf("Toggle(%v): %v", c, err)
		}
	}
	if g.Phase() != Ready {
		t.Fatalf("phase = %v, want ready", g.Phase())
	}

	if err := g.Toggle(Coord{0, 1}); !errors.Is(err, ErrSelectionFull) {
		t.Fatalf("fifth Toggle err = %v, want ErrSelectionFull", err)
	}
	if got := g.Selected(); !slices.Equal(got, picks) {
		t.Fatalf("selection changed: %v", got)
	}

	// Deselecting still works at four.
	if err := g.Toggle(Coord{1, 1}); err != nil {
		t.Fatalf("deselect at four: %v", err)
	}
	if got := g.Selected(); !slices.Equal(got, []Coord{{0, 0}, {2, 2}, {3, 3}}) {
		t.Fatalf("selection = %v", got)
	}
}

func TestToggle_RetiredAndOutOfBounds(t *testing.T) {
	p := puzzletest.New(t)
	g := Build(p, seeded(5))

	c, _ := g.find("USE")
	if err := g.Toggle(c); err != nil {
		t.Fatal(err)
	}
	g.Retire("ACCOUNT", "CLIENT", "CONSUMER", "USE")
	if g.IsSelected(c) {
		t.Fatal("retiring a selected cell must drop it from the selection")
	}
	if err := g.Toggle(c); !errors.Is(err, ErrCellUnavailable) {
		t.Fatalf("Toggle(retired) err = %v, want ErrCellUnavailable", err)
	}
	if err := g.Toggle(Coord{4, 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Toggle(4,0) err = %v, want ErrOutOfBounds", err)
	}
	if g.Phase() != Idle {
		t.Fatalf("phase = %v, want idle", g.Phase())
	}
}

func TestClearAndReset(t *testing.T) {
	p := puzzletest.New(t)
	g := Build(p, seeded(8))
	_ = g.Toggle(Coord{0, 0})
	_ = g.Toggle(Coord{0, 1})
	g.Clear()
	if g.Phase() != Idle {
		t.Fatalf("phase after Clear = %v", g.Phase())
	}

	g.Retire("FAST")
	g.Move(Down)
	g.Reset()
	for _, row := range g.Cells() {
		for _, c := range row {
			if c.Retired {
				t.Fatalf("%q still retired after Reset", c.Word.Text)
			}
		}
	}
	if g.Cursor != (Coord{}) {
		t.Fatalf("cursor after Reset = %v", g.Cursor)
	}
}

func TestParseDirection(t *testing.T) {
	for s, want := range map[string]Direction{"up": Up, "down": Down, "left": Left, "right": Right} {
		got, ok := ParseDirection(s)
		if !ok || got != want {
			t.Errorf("ParseDirection(%q) = %v,%v", s, got, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection(sideways) should fail")
	}
}
