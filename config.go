// apps/go-server/config.go
//
// Environment-driven configuration. A .env file, when present, is loaded by
// main before loadConfig runs; real environment variables win over it.

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/connections/apps/go-server/internal/game"
	"github.com/robalobadob/connections/apps/go-server/internal/httpserver"
)

type config struct {
	Port      string
	LogLevel  string
	LogPretty bool
	DBPath    string

	PuzzleSource string // nyt | file | sample
	PuzzleFile   string
	NYTBaseURL   string
	FetchTimeout time.Duration
	DailyTZ      *time.Location
	SessionTTL   time.Duration // idle sessions older than this are dropped

	Server httpserver.Config
}

func loadConfig() (config, error) {
	var errs []error
	intVar := func(k string, def int) int {
		n, err := envInt(k, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}
	c := config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    envBool("LOG_PRETTY"),
		DBPath:       getEnv("DB_PATH", "./data/connections.db"),
		PuzzleSource: strings.ToLower(getEnv("PUZZLE_SOURCE", "nyt")),
		PuzzleFile:   os.Getenv("PUZZLE_FILE"),
		NYTBaseURL:   getEnv("NYT_BASE_URL", "https://www.nytimes.com"),
		FetchTimeout: time.Duration(intVar("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		SessionTTL:   time.Duration(intVar("SESSION_TTL_HOURS", 48)) * time.Hour,
		Server: httpserver.Config{
			JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
			TokenTTL:       time.Duration(intVar("JWT_EXPIRES_HOURS", 24)) * time.Hour,
			CookieName:     getEnv("COOKIE_NAME", "connections_token"),
			ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
			AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
			MaxMistakes:    intVar("MAX_MISTAKES", game.DefaultMaxMistakes),
		},
	}
	loc, err := time.LoadLocation(getEnv("DAILY_TZ", "UTC"))
	if err != nil {
		errs = append(errs, fmt.Errorf("DAILY_TZ: %w", err))
	}
	c.DailyTZ = loc
	if c.Server.MaxMistakes < 1 {
		errs = append(errs, fmt.Errorf("MAX_MISTAKES must be at least 1, got %d", c.Server.MaxMistakes))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %s", c.SessionTTL))
	}
	return c, errors.Join(errs...)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt reads an integer, returning def when k is unset.
func envInt(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envBool(k string) bool {
	b, _ := strconv.ParseBool(os.Getenv(k))
	return b
}
