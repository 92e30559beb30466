// Package puzzletest provides a fixed puzzle for tests.
package puzzletest

import (
	"testing"

	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

// Raw returns the upstream document of a known puzzle:
//
//	A: FAST, FIRM, SECURE, TIGHT
//	B: ACCOUNT, CLIENT, CONSUMER, USE
//	C: FROSTY, MISTLETOE, RAINMAKER, SNOWMAN
//	D: AUCTION, MOVIE, PARTNER, TREATMENT
func Raw() puzzle.Raw {
	return puzzle.Raw{
		ID:        151,
		PrintDate: "2023-11-17",
		Editor:    "Wyna Liu",
		Categories: []puzzle.RawCategory{
			{Title: "SECURELY ATTACHED", Cards: []puzzle.RawCard{
				{Content: "FAST", Position: 8},
				{Content: "FIRM", Position: 4},
				{Content: "SECURE", Position: 10},
				{Content: "TIGHT", Position: 14},
			}},
			{Title: "PATRON", Cards: []puzzle.RawCard{
				{Content: "ACCOUNT", Position: 11},
				{Content: "CLIENT", Position: 6},
				{Content: "CONSUMER", Position: 15},
				{Content: "USE", Position: 12},
			}},
			{Title: "TITLE CHARACTERS", Cards: []puzzle.RawCard{
				{Content: "FROSTY", Position: 0},
				{Content: "MISTLETOE", Position: 7},
				{Content: "RAINMAKER", Position: 3},
				{Content: "SNOWMAN", Position: 1},
			}},
			{Title: "SILENT ___", Cards: []puzzle.RawCard{
				{Content: "AUCTION", Position: 2},
				{Content: "MOVIE", Position: 5},
				{Content: "PARTNER", Position: 9},
				{Content: "TREATMENT", Position: 13},
			}},
		},
	}
}

// New builds the fixture puzzle, failing the test on error.
func New(t testing.TB) *puzzle.Puzzle {
	t.Helper()
	p, err := puzzle.New(Raw())
	if err != nil {
		t.Fatalf("fixture puzzle: %v", err)
	}
	return p
}
