package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tilesweeper/internal/game"
	"tilesweeper/internal/viewmodel"
	"tilesweeper/views/components"
	"tilesweeper/views/pages"
)

// StreamTracker is told when SSE streams open and close.
type StreamTracker interface {
	StreamOpened()
	StreamClosed()
}

type GameHandler struct {
	store   *game.Store
	baseURL string
	streams StreamTracker
}

// NewGameHandler builds the per-session handler. baseURL may be empty, in
// which case links are derived from the request; streams may be nil.
func NewGameHandler(store *game.Store, baseURL string, streams StreamTracker) *GameHandler {
	return &GameHandler{store: store, baseURL: strings.TrimRight(baseURL, "/"), streams: streams}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.gamePage)
		r.Post("/choose", h.choose)
		r.Post("/reveal/{index}", h.reveal)
		r.Post("/new", h.newRound)
		r.Get("/board", h.boardFragment)
		r.Get("/state", h.state)
		r.Get("/stream", h.stream)
	})
}

func (h *GameHandler) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, ok := h.store.GetSession(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	return sess, true
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	data := viewmodel.GamePage{
		Title:     pageTitle,
		SessionID: sess.ID,
		ResumeURL: h.resumeURL(r, sess.ID),
		Board:     buildBoardFragment(sess.ID, sess.RoundNumber(), sess.Snapshot()),
	}
	render(w, r, pages.GamePage(data))
}

func (h *GameHandler) choose(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	before := sess.Snapshot()
	category, err := before.Config.Labels.Parse(r.FormValue("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	round, err := sess.Choose(category, time.Now().UTC())
	if err != nil {
		h.fail(w, r, sess.ID, err)
		return
	}
	if round.PlayerChoice != before.PlayerChoice {
		log.Debug().Str("session", sess.ID).Str("choice", category.String()).Msg("player chosen")
		h.store.Publish(sess.ID)
	}
	h.respond(w, r, sess, round)
}

func (h *GameHandler) reveal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid cell index", http.StatusBadRequest)
		return
	}
	round, changed, err := sess.Reveal(index, time.Now().UTC())
	if err != nil {
		h.fail(w, r, sess.ID, err)
		return
	}
	if changed {
		if round.GameOver {
			log.Info().
				Str("session", sess.ID).
				Str("outcome", round.Outcome.String()).
				Int("score", round.Score).
				Msg("round finished")
		}
		h.store.Publish(sess.ID)
	}
	h.respond(w, r, sess, round)
}

func (h *GameHandler) newRound(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	round, err := sess.NewRound(time.Now().UTC())
	if err != nil {
		h.fail(w, r, sess.ID, err)
		return
	}
	log.Debug().Str("session", sess.ID).Int("round", sess.RoundNumber()).Msg("new round")
	h.store.Publish(sess.ID)
	h.respond(w, r, sess, round)
}

func (h *GameHandler) boardFragment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	render(w, r, components.Board(buildBoardFragment(sess.ID, sess.RoundNumber(), sess.Snapshot())))
}

func (h *GameHandler) state(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, buildBoardFragment(sess.ID, sess.RoundNumber(), sess.Snapshot()))
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, ok := h.store.Broadcaster(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)
	if h.streams != nil {
		h.streams.StreamOpened()
		defer h.streams.StreamClosed()
	}

	sendBoard := func(seq uint64) {
		data := buildBoardFragment(sess.ID, sess.RoundNumber(), sess.Snapshot())
		writeSSE(w, seq, game.EventBoard, renderToString(r, components.Board(data)))
		flusher.Flush()
	}

	sendBoard(0)

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-sub:
			if !open {
				// session reaped or removed
				return
			}
			if ev.Name == game.EventBoard {
				sendBoard(ev.Seq)
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

// respond renders the board for htmx requests, JSON for API clients and
// otherwise redirects back to the game page.
func (h *GameHandler) respond(w http.ResponseWriter, r *http.Request, sess *game.Session, round game.Round) {
	data := buildBoardFragment(sess.ID, sess.RoundNumber(), round)
	switch {
	case isHTMX(r):
		render(w, r, components.Board(data))
	case strings.Contains(r.Header.Get("Accept"), "application/json"):
		writeJSON(w, http.StatusOK, data)
	default:
		http.Redirect(w, r, "/game/"+sess.ID, http.StatusSeeOther)
	}
}

func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidIndex), errors.Is(err, game.ErrInvalidCategory):
		log.Warn().Err(err).Str("session", sessionID).Msg("rejected input")
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Str("session", sessionID).Msg("game error")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *GameHandler) resumeURL(r *http.Request, sessionID string) string {
	if h.baseURL != "" {
		return h.baseURL + "/game/" + sessionID
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/game/" + sessionID
}

func buildBoardFragment(sessionID string, roundNumber int, round game.Round) viewmodel.BoardFragment {
	labels := round.Config.Labels
	hasChoice := round.PlayerChoice != game.NoCategory

	cells := make([]viewmodel.CellView, len(round.Board.Cells))
	for i, cell := range round.Board.Cells {
		view := viewmodel.CellView{
			Index:    i,
			Revealed: cell.Revealed,
			Disabled: round.GameOver || cell.Revealed,
		}
		if cell.Revealed {
			view.Category = categoryKey(cell.Category)
			view.Label = labels.Label(cell.Category)
		}
		cells[i] = view
	}

	categories := game.Categories()
	scores := make([]viewmodel.CategoryScore, 0, len(categories))
	choices := make([]viewmodel.ChoiceOption, 0, len(categories))
	for _, c := range categories {
		score := viewmodel.CategoryScore{
			Category: categoryKey(c),
			Label:    labels.Label(c),
			Correct:  round.CorrectFor(c),
		}
		if round.GameOver {
			score.Total = round.Board.CountOf(c)
		}
		scores = append(scores, score)
		choices = append(choices, viewmodel.ChoiceOption{Value: categoryKey(c), Label: labels.Label(c)})
	}

	data := viewmodel.BoardFragment{
		SessionID:   sessionID,
		RoundNumber: roundNumber,
		Phase:       string(round.Phase()),
		HasChoice:   hasChoice,
		Choices:     choices,
		Rows:        round.Board.Rows,
		Cols:        round.Board.Cols,
		Cells:       cells,
		Score:       round.Score,
		Scores:      scores,
		GameOver:    round.GameOver,
		ShowTotals:  round.GameOver,
		Message:     round.Message,
	}
	if hasChoice {
		data.PlayerLabel = strings.ToUpper(labels.Label(round.PlayerChoice))
	}
	return data
}

func categoryKey(c game.Category) string {
	return strings.ToLower(c.String())
}
