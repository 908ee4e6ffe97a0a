package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"tilesweeper/pkg/realtime"
)

// EventBoard is published to stream subscribers after every state change.
const EventBoard = "board"

// DefaultSessionTTL is how long an idle session survives.
const DefaultSessionTTL = 2 * time.Hour

// Observer is notified of round lifecycle transitions.
type Observer interface {
	RoundStarted()
	RevealAccepted()
	RoundFinished(outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) RoundStarted() {}
func (nopObserver) RevealAccepted() {}
func (nopObserver) RoundFinished(Outcome) {}

// StoreOptions configures a Store.
type StoreOptions struct {
	Config   Config
	TTL      time.Duration
	Observer Observer
	// Seed fixes the per-session random source; zero seeds from the clock.
	Seed int64
}

// Store holds sessions and delegates to realtime.RoomStore for lookup, broadcast and expiry.
type Store struct {
	r    *realtime.RoomStore[*Session]
	opts StoreOptions
}

// NewStore creates an in-memory session store.
func NewStore(opts StoreOptions) (*Store, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Store{r: realtime.NewRoomStore[*Session](), opts: opts}, nil
}

// Config returns the round configuration every session uses.
func (s *Store) Config() Config {
	return s.opts.Config
}

// CreateSession starts a session with a fresh round and schedules its expiry.
func (s *Store) CreateSession(now time.Time) (*Session, error) {
	seed := s.opts.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	sess, err := newSession(uuid.NewString(), s.opts.Config, rand.New(rand.NewSource(seed)), s.opts.Observer, now)
	if err != nil {
		return nil, err
	}
	s.r.Create(sess.ID, sess)
	s.ensureReaper(sess.ID)
	return sess, nil
}

// GetSession returns a session by ID if it exists.
func (s *Store) GetSession(id string) (*Session, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.r.Len()
}

// Broadcaster returns the stream broadcaster for a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.Hub(), true
}

// Publish notifies subscribers of a session update.
func (s *Store) Publish(id string) {
	s.r.Publish(id, EventBoard)
}

// Remove drops a session immediately.
func (s *Store) Remove(id string) bool {
	return s.r.Delete(id)
}

// ensureReaper deletes the session once it has been idle for the TTL.
func (s *Store) ensureReaper(id string) {
	ttl := s.opts.TTL
	s.r.RunLoop(id, func(sess *Session, now time.Time) (time.Time, bool) {
		deadline := sess.LastActive().Add(ttl)
		if now.Before(deadline) {
			return deadline, false
		}
		s.r.Delete(id)
		return time.Time{}, true
	})
}

// Session is one browser's game: the current round plus its random source.
type Session struct {
	mu         sync.Mutex
	ID         string
	CreatedAt  time.Time
	lastActive time.Time
	rng        *rand.Rand
	obs        Observer
	round      Round
	rounds     int
}

func newSession(id string, cfg Config, rng *rand.Rand, obs Observer, now time.Time) (*Session, error) {
	round, err := NewGame(cfg, rng)
	if err != nil {
		return nil, err
	}
	obs.RoundStarted()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		lastActive: now,
		rng:        rng,
		obs:        obs,
		round:      round,
		rounds:     1,
	}, nil
}

// Snapshot returns the current round after settling any pending win.
func (s *Session) Snapshot() Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(s.round)
	return s.round
}

// RoundNumber returns how many rounds this session has started.
func (s *Session) RoundNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

// LastActive returns the time of the last player event.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Choose declares the player's category for the current round.
func (s *Session) Choose(c Category, now time.Time) (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now
	next, err := ChoosePlayer(s.round, c)
	if err != nil {
		return s.round, err
	}
	s.apply(next)
	return s.round, nil
}

// Reveal clicks a cell and reports whether the state changed.
func (s *Session) Reveal(index int, now time.Time) (Round, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now
	next, err := Reveal(s.round, index)
	if err != nil {
		return s.round, false, err
	}
	changed := next.Reveals != s.round.Reveals
	if changed {
		s.obs.RevealAccepted()
	}
	s.apply(next)
	return s.round, changed, nil
}

// NewRound discards the current round and deals a fresh board.
func (s *Session) NewRound(now time.Time) (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now
	round, err := NewGame(s.round.Config, s.rng)
	if err != nil {
		return s.round, err
	}
	s.round = round
	s.rounds++
	s.obs.RoundStarted()
	return s.round, nil
}

// apply stores next as the current round, running the reactive win check
// and reporting the finishing transition exactly once.
func (s *Session) apply(next Round) {
	wasOver := s.round.GameOver
	next = Settle(next)
	s.round = next
	if !wasOver && next.GameOver {
		s.obs.RoundFinished(next.Outcome)
	}
}
