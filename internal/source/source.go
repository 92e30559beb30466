// internal/source/source.go
//
// Puzzle sources: where the day's puzzle comes from.
//
//   - NYT:    GET {base}/svc/connections/v2/{YYYY-MM-DD}.json
//   - File:   a single JSON document on disk (development, fixtures)
//   - Sample: the puzzle embedded in the binary (offline demo)
//
// A failed fetch is returned to the caller as-is; no source ever substitutes
// a placeholder puzzle. There are no retries.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/apps/go-server/assets"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

// ErrFetch wraps every failure to obtain a puzzle document.
var ErrFetch = errors.New("puzzle fetch failed")

// maxBody bounds the size of an upstream document.
const maxBody = 1 << 20

// Source supplies the puzzle for a date.
type Source interface {
	Fetch(ctx context.Context, date time.Time) (*puzzle.Puzzle, error)
}

// DateLayout is the print-date format used in URLs and cache keys.
const DateLayout = "2006-01-02"

// NYT fetches puzzles from the New York Times endpoint.
type NYT struct {
	BaseURL string
	Client  *http.Client
}

// NewNYT builds an NYT source with a bounded client timeout.
func NewNYT(baseURL string, timeout time.Duration) *NYT {
	return &NYT{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (n *NYT) url(date time.Time) string {
	return fmt.Sprintf("%s/svc/connections/v2/%s.json", n.BaseURL, date.Format(DateLayout))
}

// Fetch downloads and validates the puzzle printed on date.
func (n *NYT) Fetch(ctx context.Context, date time.Time) (*puzzle.Puzzle, error) {
	u := n.url(date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := n.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer res.Body.Close()

	log.Debug().Str("url", u).Int("status", res.StatusCode).Dur("took", time.Since(start)).Msg("nyt fetch")
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, u, res.Status)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	return puzzle.Parse(body)
}

// File serves the puzzle stored in one JSON file, whatever the date.
type File struct{ Path string }

func (f File) Fetch(ctx context.Context, _ time.Time) (*puzzle.Puzzle, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return puzzle.Parse(b)
}

// Sample serves the puzzle embedded in the binary, whatever the date.
type Sample struct{}

func (Sample) Fetch(ctx context.Context, _ time.Time) (*puzzle.Puzzle, error) {
	b, err := assets.SamplePuzzle()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return puzzle.Parse(b)
}

// FromConfig picks a source by name ("nyt", "file", "sample").
func FromConfig(kind, baseURL, path string, timeout time.Duration) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "nyt":
		return NewNYT(baseURL, timeout), nil
	case "file":
		if path == "" {
			return nil, errors.New("source: PUZZLE_FILE is required for the file source")
		}
		return File{Path: path}, nil
	case "sample":
		return Sample{}, nil
	default:
		return nil, fmt.Errorf("source: unknown kind %q", kind)
	}
}
