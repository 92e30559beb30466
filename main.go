package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/apps/go-server/assets"
	"github.com/robalobadob/connections/apps/go-server/internal/daily"
	"github.com/robalobadob/connections/apps/go-server/internal/httpserver"
	"github.com/robalobadob/connections/apps/go-server/internal/source"
	"github.com/robalobadob/connections/apps/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open db")
	}
	defer db.Close()
	if err := migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	upstream, err := source.FromConfig(cfg.PuzzleSource, cfg.NYTBaseURL, cfg.PuzzleFile, cfg.FetchTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("puzzle source")
	}
	puzzles := daily.NewProvider(upstream, cfg.PuzzleSource, daily.NewCache(db), cfg.DailyTZ)

	sessions := store.NewMemoryStore()
	go store.Sweep(context.Background(), sessions, cfg.SessionTTL, 10*time.Minute)

	srv := httpserver.New(sessions, puzzles, cfg.Server)
	log.Info().
		Str("port", cfg.Port).
		Str("source", cfg.PuzzleSource).
		Str("today", puzzles.Today()).
		Bool("admin", cfg.Server.AdminTokenHash != "").
		Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
