// internal/httpserver/routes_admin.go
//
// Admin routes for the daily puzzle cache. Mounted only when an admin token
// hash is configured; every request must carry X-Admin-Token.
//   - PUT /admin/puzzles/{date}  → store an upstream-format puzzle document for a date
//   - GET /admin/puzzles         → list cached dates (?limit=N)

package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/apps/go-server/internal/daily"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
)

const maxUpload = 1 << 20

func (s *Server) mountAdmin() {
	if s.cfg.AdminTokenHash == "" {
		return
	}
	s.r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Put("/puzzles/{date}", s.handleSeedPuzzle)
		r.Get("/puzzles", s.handleListPuzzles)
	})
}

func (s *Server) handleSeedPuzzle(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := daily.ParseDateKey(date, s.puzzles.Location()); err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpload+1))
	if err != nil {
		http.Error(w, `{"error":"bad_body"}`, http.StatusBadRequest)
		return
	}
	if len(body) > maxUpload {
		http.Error(w, `{"error":"too_large"}`, http.StatusRequestEntityTooLarge)
		return
	}
	p, err := puzzle.Parse(body)
	if err != nil {
		code := "bad_json"
		if errors.Is(err, puzzle.ErrMalformedPuzzle) {
			code = "malformed_puzzle"
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": code, "detail": err.Error()})
		return
	}
	if err := s.puzzles.Seed(r.Context(), date, p); err != nil {
		log.Error().Err(err).Str("date", date).Msg("seed puzzle")
		http.Error(w, `{"error":"seed_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("date", date).Int("puzzleId", p.ID).Msg("puzzle seeded")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "date": date, "puzzleId": p.ID})
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 365 {
		limit = 30
	}
	entries, err := s.puzzles.Cached(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list puzzles")
		http.Error(w, `{"error":"list_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
