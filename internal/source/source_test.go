package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle/puzzletest"
)

func fixtureJSON(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(puzzletest.Raw())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNYT_Fetch(t *testing.T) {
	body := fixtureJSON(t)
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	n := NewNYT(srv.URL+"/", time.Second)
	date := time.Date(2023, 11, 17, 15, 0, 0, 0, time.UTC)
	p, err := n.Fetch(context.Background(), date)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotPath != "/svc/connections/v2/2023-11-17.json" {
		t.Fatalf("path = %q", gotPath)
	}
	if p.ID != 151 || p.Categories[0].Words[0].Text != "FAST" {
		t.Fatalf("unexpected puzzle: %+v", p)
	}
}

func TestNYT_Errors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }, ErrFetch},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, ErrFetch},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"categories":[]}`)) }, puzzle.ErrMalformedPuzzle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, err := NewNYT(srv.URL, time.Second).Fetch(context.Background(), time.Now())
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		if _, err := NewNYT(url, time.Second).Fetch(context.Background(), time.Now()); !errors.Is(err, ErrFetch) {
			t.Fatalf("err = %v, want ErrFetch", err)
		}
	})
}

func TestFileAndSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	if err := os.WriteFile(path, fixtureJSON(t), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := File{Path: path}.Fetch(context.Background(), time.Now())
	if err != nil || p.Editor != "Wyna Liu" {
		t.Fatalf("File.Fetch = %+v, %v", p, err)
	}
	if _, err := (File{Path: path + ".missing"}).Fetch(context.Background(), time.Now()); !errors.Is(err, ErrFetch) {
		t.Fatalf("missing file err = %v", err)
	}

	s, err := Sample{}.Fetch(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Sample.Fetch: %v", err)
	}
	if len(s.Words()) != puzzle.WordCount {
		t.Fatal("sample puzzle incomplete")
	}
}

func TestFromConfig(t *testing.T) {
	if s, err := FromConfig("", "https://example.com", "", time.Second); err != nil {
		t.Fatal(err)
	} else if _, ok := s.(*NYT); !ok {
		t.Fatalf("default source = %T", s)
	}
	if _, err := FromConfig("file", "", "", time.Second); err == nil {
		t.Fatal("file source without path should fail")
	}
	if s, _ := FromConfig("SAMPLE", "", "", time.Second); s == nil {
		t.Fatal("sample source not built")
	}
	if _, err := FromConfig("ftp", "", "", time.Second); err == nil {
		t.Fatal("unknown kind should fail")
	}
}
