package main

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tilesweeper/internal/config"
	"tilesweeper/internal/game"
	"tilesweeper/internal/handlers"
	"tilesweeper/internal/metrics"
)

func main() {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	var store *game.Store
	m := metrics.New("tilesweeper", func() int { return store.Len() })
	store, err = game.NewStore(game.StoreOptions{
		Config:   cfg.Game,
		TTL:      cfg.SessionTTL,
		Observer: m,
		Seed:     cfg.Seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create store")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(handlers.TimeoutExceptStreams(15 * time.Second))

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("static files")
	}

	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))
	r.Handle("/metrics", m.Handler())

	homeHandler := handlers.NewHomeHandler(store)
	gameHandler := handlers.NewGameHandler(store, cfg.BaseURL, m)

	homeHandler.RegisterRoutes(r)
	gameHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0, // board streams stay open
		IdleTimeout:       60 * time.Second,
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("rows", cfg.Game.Rows).
		Int("cols", cfg.Game.Cols).
		Str("fill", cfg.Game.Fill.String()).
		Str("reveal", cfg.Game.Reveal.String()).
		Msg("listening")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

//go:embed static/*
var embeddedStatic embed.FS
