// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - POST /game/new            → start a session on today's (or a given date's) puzzle
//   - GET  /game/{id}           → current state
//   - POST /game/{id}/cursor    → move the cursor {direction}
//   - POST /game/{id}/toggle    → toggle {row,col}, or the cursor cell when omitted
//   - POST /game/{id}/clear     → clear the selection
//   - POST /game/{id}/guess     → submit the four selected cells
//   - POST /game/{id}/shuffle   → reshuffle the grid
//   - POST /game/{id}/restart   → replay the puzzle from scratch
//
// Every /game/{id} route needs the play token issued by /game/new.
// Rejected actions (finished game, full selection, ...) answer 409 and change nothing.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/apps/go-server/internal/daily"
	"github.com/robalobadob/connections/apps/go-server/internal/game"
	"github.com/robalobadob/connections/apps/go-server/internal/grid"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
	"github.com/robalobadob/connections/apps/go-server/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame() {
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requirePlayToken)
		r.Get("/", s.handleState)
		r.Post("/cursor", s.handleCursor)
		r.Post("/toggle", s.handleToggle)
		r.Post("/clear", s.action(func(g *game.Session) error { return g.ClearSelection() }))
		r.Post("/guess", s.handleGuess)
		r.Post("/shuffle", s.action(func(g *game.Session) error { return g.Reshuffle() }))
		r.Post("/restart", s.action(func(g *game.Session) error { return g.Restart() }))
	})
}

// -----------------------------------------------------------------------------
// /game/new

type newGameReq struct {
	Date string `json:"date"` // optional YYYY-MM-DD, defaults to today
}

type newGameRes struct {
	GameID string   `json:"gameId"`
	Token  string   `json:"token"`
	State  stateRes `json:"state"`
}

// handleNewGame loads the puzzle for the requested day and starts a session.
// No puzzle means no session: fetch failures answer 503.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.puzzles.Today()
	}
	day, err := daily.ParseDateKey(date, s.puzzles.Location())
	if err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}

	p, err := s.puzzles.Fetch(r.Context(), day)
	if err != nil {
		log.Warn().Err(err).Str("date", date).Msg("puzzle unavailable")
		http.Error(w, `{"error":"puzzle_unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	g := game.New(p, game.WithMaxMistakes(s.cfg.MaxMistakes))
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.signPlayToken(g.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign play token")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setPlayCookie(w, tok, exp)
	log.Info().Str("gameId", g.ID).Str("date", date).Int("puzzleId", p.ID).Msg("game started")

	writeJSON(w, http.StatusCreated, newGameRes{GameID: g.ID, Token: tok, State: buildState(g, s.paint)})
}

// -----------------------------------------------------------------------------
// state + simple actions

// update runs fn on the request's session and answers with the new state.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(*game.Session) error) {
	var st stateRes
	err := s.store.Update(r.Context(), gameID(r), func(g *game.Session) error {
		if err := fn(g); err != nil {
			return err
		}
		st = buildState(g, s.paint)
		return nil
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// action adapts a session call into a handler.
func (s *Server) action(fn func(*game.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { s.update(w, r, fn) }
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(*game.Session) error { return nil })
}

type cursorReq struct {
	Direction string `json:"direction"` // up | down | left | right
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	var req cursorReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	d, ok := grid.ParseDirection(strings.ToLower(strings.TrimSpace(req.Direction)))
	if !ok {
		http.Error(w, `{"error":"bad_direction"}`, http.StatusBadRequest)
		return
	}
	s.update(w, r, func(g *game.Session) error { return g.MoveCursor(d) })
}

type toggleReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	switch {
	case req.Row == nil && req.Col == nil:
		s.update(w, r, func(g *game.Session) error { return g.ToggleCursor() })
	case req.Row != nil && req.Col != nil:
		c := grid.Coord{Row: *req.Row, Col: *req.Col}
		s.update(w, r, func(g *game.Session) error { return g.Toggle(c) })
	default:
		http.Error(w, `{"error":"bad_coord"}`, http.StatusBadRequest)
	}
}

// -----------------------------------------------------------------------------
// /game/{id}/guess

type guessRes struct {
	Correct  bool         `json:"correct"`
	OneAway  bool         `json:"oneAway"`
	Category *categoryRes `json:"category,omitempty"`
	State    stateRes     `json:"state"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var out guessRes
	err := s.store.Update(r.Context(), gameID(r), func(g *game.Session) error {
		res, err := g.SubmitGuess()
		if err != nil {
			return err
		}
		out.Correct, out.OneAway = res.Correct, res.OneAway
		if res.Category != nil {
			c := rankedRes(*res.Category, s.paint)
			out.Category = &c
		}
		out.State = buildState(g, s.paint)
		if res.Status != game.StatusPlaying {
			log.Info().Str("gameId", g.ID).Str("status", string(res.Status)).
				Int("mistakes", g.MistakesMade()).Msg("game finished")
		}
		return nil
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// errors

// writeGameError maps engine/store errors onto HTTP statuses.
func (s *Server) writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	case errors.Is(err, game.ErrSessionFinished):
		http.Error(w, `{"error":"session_finished"}`, http.StatusConflict)
	case errors.Is(err, game.ErrSelectionFull):
		http.Error(w, `{"error":"selection_full"}`, http.StatusConflict)
	case errors.Is(err, game.ErrCellUnavailable):
		http.Error(w, `{"error":"cell_unavailable"}`, http.StatusConflict)
	case errors.Is(err, game.ErrIncompleteSelection):
		http.Error(w, `{"error":"incomplete_selection"}`, http.StatusConflict)
	case errors.Is(err, game.ErrOutOfBounds):
		http.Error(w, `{"error":"out_of_bounds"}`, http.StatusBadRequest)
	case errors.Is(err, puzzle.ErrUnknownWord):
		log.Error().Err(err).Str("gameId", gameID(r)).Msg("grid/puzzle mismatch")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	default:
		log.Error().Err(err).Str("gameId", gameID(r)).Msg("game action failed")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}
