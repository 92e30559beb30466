// internal/httpserver/server.go
//
// HTTP server wiring for the Connections backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, then /game/{id}/* guarded by a per-game play token.
//   - Admin endpoints (optional): seed the daily puzzle cache.
//
// Notes:
//   - The server never evaluates game rules itself; every action is one call on
//     a game.Session, executed under store.Update so a session sees one action at a time.
//   - Play tokens are HS256 JWTs naming the game ID; they are returned by /game/new and
//     accepted as a Bearer header or cookie.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/apps/go-server/internal/daily"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
	"github.com/robalobadob/connections/apps/go-server/internal/store"
)

// Puzzles is what the server needs from the daily puzzle provider.
type Puzzles interface {
	Fetch(ctx context.Context, date time.Time) (*puzzle.Puzzle, error)
	Today() string
	Location() *time.Location
	Seed(ctx context.Context, date string, p *puzzle.Puzzle) error
	Cached(ctx context.Context, limit int) ([]daily.Entry, error)
}

// Config carries the server's tunables; zero values fall back to defaults.
type Config struct {
	JWTSecret      string
	TokenTTL       time.Duration
	CookieName     string
	ClientOrigin   string
	AdminTokenHash string // bcrypt hash; admin routes are off when empty
	MaxMistakes    int
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.JWTSecret == "" {
		c.JWTSecret = "dev_secret_change_me"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.CookieName == "" {
		c.CookieName = "connections_token"
	}
	if c.ClientOrigin == "" {
		c.ClientOrigin = "http://localhost:5173"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	return c
}

// Server bundles router, session store and puzzle provider.
type Server struct {
	r       *chi.Mux
	store   store.Store
	puzzles Puzzles
	cfg     Config
	paint   Palette
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, pz Puzzles, cfg Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, puzzles: pz, cfg: cfg.withDefaults(), paint: DefaultPalette}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                     // add X-Request-ID
	s.r.Use(chimw.RealIP)                        // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                           // one zerolog line per request
	s.r.Use(chimw.Recoverer)                     // recover from panics
	s.r.Use(chimw.Timeout(s.cfg.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                     // default JSON responses
	s.r.Use(s.cors)                              // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"connections-go","endpoints":["/health","POST /game/new","/game/{id}"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.store.Len(), "today": s.puzzles.Today()})
	})

	s.mountGame()
	s.mountAdmin()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Token")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog logs method, path, status, bytes and duration.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
