package daily

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

// ErrMiss is returned by Cache.Get when no puzzle is stored for the date.
var ErrMiss = errors.New("daily: cache miss")

// Cache stores one upstream puzzle document per print date.
type Cache struct{ db *sql.DB }

func NewCache(db *sql.DB) *Cache { return &Cache{db: db} }

// Get loads and re-validates the puzzle cached for date.
func (c *Cache) Get(ctx context.Context, date string) (*puzzle.Puzzle, error) {
	var body string
	err := c.db.QueryRowContext(ctx, `SELECT body FROM puzzles WHERE date=?`, date).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("daily: get %s: %w", date, err)
	}
	return puzzle.Parse([]byte(body))
}

// Put stores p under date, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, date, source string, p *puzzle.Puzzle) error {
	body, err := json.Marshal(p.Raw())
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO puzzles(date, puzzle_id, body, source) VALUES(?,?,?,?)
		 ON CONFLICT(date) DO UPDATE SET puzzle_id=excluded.puzzle_id, body=excluded.body,
		     source=excluded.source, fetched_at=strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
		date, p.ID, string(body), source,
	)
	if err != nil {
		return fmt.Errorf("daily: put %s: %w", date, err)
	}
	return nil
}

// Entry is a cache listing row.
type Entry struct {
	Date      string `json:"date"`
	PuzzleID  int    `json:"puzzleId"`
	Source    string `json:"source"`
	FetchedAt string `json:"fetchedAt"`
}

// List returns the most recent cached dates, newest first.
func (c *Cache) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT date, puzzle_id, source, fetched_at FROM puzzles ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.PuzzleID, &e.Source, &e.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
