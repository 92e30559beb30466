// Package assets embeds the files the server ships with: SQL migrations
// and a sample puzzle for offline play.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql sample_puzzle.json
var FS embed.FS

// Migrations returns the embedded sql/ directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}

// SamplePuzzle returns the raw JSON of the embedded sample puzzle.
func SamplePuzzle() ([]byte, error) {
	return FS.ReadFile("sample_puzzle.json")
}
