package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tilesweeper/internal/game"
	"tilesweeper/internal/viewmodel"
	"tilesweeper/views/pages"
)

const pageTitle = "Chicken Banana Sweeper"

type HomeHandler struct {
	store *game.Store
}

func NewHomeHandler(store *game.Store) *HomeHandler {
	return &HomeHandler{store: store}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/sessions", h.createSession)
	r.Get("/health", h.health)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	cfg := h.store.Config()
	render(w, r, pages.HomePage(viewmodel.HomePage{
		Title:  pageTitle,
		Rows:   cfg.Rows,
		Cols:   cfg.Cols,
		Fill:   cfg.Fill.String(),
		Reveal: cfg.Reveal.String(),
		LabelA: cfg.Labels.Label(game.CategoryA),
		LabelB: cfg.Labels.Label(game.CategoryB),
	}))
}

func (h *HomeHandler) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.CreateSession(time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("create session")
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	log.Info().Str("session", sess.ID).Msg("session created")
	http.Redirect(w, r, "/game/"+sess.ID, http.StatusSeeOther)
}

func (h *HomeHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"sessions": h.store.Len(),
	})
}
