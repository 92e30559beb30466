package assets

import (
	"io/fs"
	"testing"
)

func TestEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations(), "*.sql")
	if err != nil || len(names) == 0 {
		t.Fatalf("no embedded migrations: %v %v", names, err)
	}
	b, err := SamplePuzzle()
	if err != nil || len(b) == 0 {
		t.Fatalf("SamplePuzzle: %v", err)
	}
}
