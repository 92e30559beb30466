// internal/puzzle/puzzle.go
//
// Immutable model of one day's solved Connections puzzle.
// Responsibilities:
//   - Decode the upstream JSON document (Raw) and validate its 4x4 shape.
//   - Expose categories, words and their positional difficulty.
//   - Reverse lookup word text → category through an index built at construction.
//
// A Puzzle is never mutated after New returns; callers may share it freely.
package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	// CategoryCount is the number of categories in every puzzle.
	CategoryCount = 4
	// WordsPerCategory is the number of words in every category.
	WordsPerCategory = 4
	// WordCount is the total number of words on the board.
	WordCount = CategoryCount * WordsPerCategory
)

var (
	// ErrMalformedPuzzle reports source data that violates the 4x4 shape.
	ErrMalformedPuzzle = errors.New("malformed puzzle")
	// ErrUnknownWord reports a word text that is not part of the puzzle.
	ErrUnknownWord = errors.New("unknown word")
)

// Word is one card of the puzzle.
type Word struct {
	Text     string // Card text as shown to the player.
	Position int    // Index in the canonical solution ordering, 0..15.
}

// Category is a titled group of exactly four words.
type Category struct {
	Title string
	Words [WordsPerCategory]Word
}

// Puzzle is one day's complete solution plus metadata.
type Puzzle struct {
	ID         int
	PrintDate  string
	Editor     string
	Categories [CategoryCount]Category

	index map[string]int // word text → category index
}

// RawCard mirrors a card in the upstream JSON.
type RawCard struct {
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// RawCategory mirrors a category in the upstream JSON.
type RawCategory struct {
	Title string    `json:"title"`
	Cards []RawCard `json:"cards"`
}

// Raw is the upstream puzzle document:
// {id, print_date, editor, categories: [{title, cards: [{content, position}]}]}.
type Raw struct {
	ID         int           `json:"id"`
	PrintDate  string        `json:"print_date"`
	Editor     string        `json:"editor"`
	Categories []RawCategory `json:"categories"`
}

// Parse decodes a JSON document and validates it with New.
func Parse(data []byte) (*Puzzle, error) {
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPuzzle, err)
	}
	return New(raw)
}

// New validates raw and builds an immutable Puzzle.
//
// Validation rules (all failures wrap ErrMalformedPuzzle):
//   - exactly 4 categories, each with a non-empty, distinct title;
//   - exactly 4 cards per category, each with non-empty text;
//   - word texts unique across the puzzle;
//   - positions within [0,15] and unique.
func New(raw Raw) (*Puzzle, error) {
	if len(raw.Categories) != CategoryCount {
		return nil, malformed("want %d categories, got %d", CategoryCount, len(raw.Categories))
	}

	p := &Puzzle{
		ID:        raw.ID,
		PrintDate: raw.PrintDate,
		Editor:    raw.Editor,
		index:     make(map[string]int, WordCount),
	}

	for ci, rc := range raw.Categories {
		title := strings.TrimSpace(rc.Title)
		if title == "" {
			return nil, malformed("category %d has no title", ci)
		}
		if len(rc.Cards) != WordsPerCategory {
			return nil, malformed("category %q: want %d cards, got %d", title, WordsPerCategory, len(rc.Cards))
		}
		cat := Category{Title: title}
		for wi, card := range rc.Cards {
			text := strings.TrimSpace(card.Content)
			if text == "" {
				return nil, malformed("category %q: card %d is empty", title, wi)
			}
			if card.Position < 0 || card.Position >= WordCount {
				return nil, malformed("word %q: position %d out of range", text, card.Position)
			}
			cat.Words[wi] = Word{Text: text, Position: card.Position}
		}
		p.Categories[ci] = cat
	}

	titles := lo.Map(p.Categories[:], func(c Category, _ int) string { return c.Title })
	if dup := lo.FindDuplicates(titles); len(dup) > 0 {
		return nil, malformed("duplicate category title %q", dup[0])
	}
	words := p.Words()
	if dup := lo.FindDuplicates(lo.Map(words, func(w Word, _ int) string { return w.Text })); len(dup) > 0 {
		return nil, malformed("duplicate word %q", dup[0])
	}
	if dup := lo.FindDuplicates(lo.Map(words, func(w Word, _ int) int { return w.Position })); len(dup) > 0 {
		return nil, malformed("duplicate position %d", dup[0])
	}

	for ci, c := range p.Categories {
		for _, w := range c.Words {
			p.index[w.Text] = ci
		}
	}
	return p, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPuzzle, fmt.Sprintf(format, args...))
}

// Words returns the 16 words flattened in category order.
func (p *Puzzle) Words() []Word {
	return lo.FlatMap(p.Categories[:], func(c Category, _ int) []Word { return c.Words[:] })
}

// CategoryIndex returns the index (0..3) of the category containing text.
func (p *Puzzle) CategoryIndex(text string) (int, error) {
	ci, ok := p.index[text]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWord, text)
	}
	return ci, nil
}

// CategoryOf returns the category containing text.
func (p *Puzzle) CategoryOf(text string) (Category, error) {
	ci, err := p.CategoryIndex(text)
	if err != nil {
		return Category{}, err
	}
	return p.Categories[ci], nil
}

// Raw converts the puzzle back into its upstream document shape.
func (p *Puzzle) Raw() Raw {
	raw := Raw{ID: p.ID, PrintDate: p.PrintDate, Editor: p.Editor}
	for _, c := range p.Categories {
		rc := RawCategory{Title: c.Title}
		for _, w := range c.Words {
			rc.Cards = append(rc.Cards, RawCard{Content: w.Text, Position: w.Position})
		}
		raw.Categories = append(raw.Categories, rc)
	}
	return raw
}
