package game

import (
	"fmt"
	"strings"
)

const (
	DefaultRows = 4
	DefaultCols = 4

	WinMessage = "🎉 You win! All your tiles revealed!"
)

// RevealPolicy selects which cells a click discloses.
type RevealPolicy int

const (
	// RevealAll discloses the whole board on any accepted click.
	RevealAll RevealPolicy = iota
	// RevealOne discloses only the clicked cell.
	RevealOne
)

func (p RevealPolicy) String() string {
	switch p {
	case RevealAll:
		return "all"
	case RevealOne:
		return "one"
	}
	return fmt.Sprintf("RevealPolicy(%d)", int(p))
}

// ParseRevealPolicy accepts "all" or "one".
func ParseRevealPolicy(value string) (RevealPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "all", "reveal-all":
		return RevealAll, nil
	case "one", "reveal-one":
		return RevealOne, nil
	}
	return 0, fmt.Errorf("%w: unknown reveal policy %q", ErrConfiguration, value)
}

// Labels are the display names attached to the two categories.
type Labels struct {
	A string
	B string
}

// Label returns the display name for c, falling back to c.String().
func (l Labels) Label(c Category) string {
	switch c {
	case CategoryA:
		if l.A != "" {
			return l.A
		}
	case CategoryB:
		if l.B != "" {
			return l.B
		}
	}
	return c.String()
}

// Parse resolves a category from "a"/"b" or one of the labels.
func (l Labels) Parse(value string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "a" || (l.A != "" && v == strings.ToLower(l.A)):
		return CategoryA, nil
	case v == "b" || (l.B != "" && v == strings.ToLower(l.B)):
		return CategoryB, nil
	}
	return NoCategory, fmt.Errorf("%w: %q", ErrInvalidCategory, value)
}

// Config fixes the grid and policies for every round of a session.
type Config struct {
	Rows   int
	Cols   int
	Fill   FillPolicy
	Reveal RevealPolicy
	Labels Labels
}

// DefaultConfig is the 4x4 balanced, reveal-all chicken/banana variant.
func DefaultConfig() Config {
	return Config{
		Rows:   DefaultRows,
		Cols:   DefaultCols,
		Fill:   FillBalanced,
		Reveal: RevealAll,
		Labels: Labels{A: "chicken", B: "banana"},
	}
}

// Validate checks the config without generating a board.
func (c Config) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("%w: grid %dx%d", ErrConfiguration, c.Rows, c.Cols)
	}
	switch c.Fill {
	case FillBalanced:
		if (c.Rows*c.Cols)%2 != 0 {
			return fmt.Errorf("%w: balanced fill needs an even cell count, got %d", ErrConfiguration, c.Rows*c.Cols)
		}
	case FillCoinFlip:
	default:
		return fmt.Errorf("%w: unknown fill policy %d", ErrConfiguration, int(c.Fill))
	}
	if c.Reveal != RevealAll && c.Reveal != RevealOne {
		return fmt.Errorf("%w: unknown reveal policy %d", ErrConfiguration, int(c.Reveal))
	}
	return nil
}

// Outcome is how a round ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	}
	return "none"
}

// Phase is the position of a round in its state machine.
type Phase string

const (
	PhaseChoosingPlayer Phase = "choosing_player"
	PhasePlaying        Phase = "playing"
	PhaseWon            Phase = "won"
	PhaseLost           Phase = "lost"
)

// Round is an immutable snapshot of one play-through. Reducers return a new
// Round and never modify the one passed in.
type Round struct {
	Config       Config
	Board        Board
	PlayerChoice Category
	Score        int
	Correct      [3]int // indexed by Category
	Reveals      int
	GameOver     bool
	Outcome      Outcome
	Message      string
}

// NewGame starts a fresh round.
func NewGame(cfg Config, rng Rand) (Round, error) {
	if err := cfg.Validate(); err != nil {
		return Round{}, err
	}
	board, err := Generate(cfg.Rows, cfg.Cols, cfg.Fill, rng)
	if err != nil {
		return Round{}, err
	}
	return Round{Config: cfg, Board: board}, nil
}

// Phase derives the state machine position.
func (r Round) Phase() Phase {
	switch {
	case r.Outcome == OutcomeWon:
		return PhaseWon
	case r.Outcome == OutcomeLost:
		return PhaseLost
	case r.PlayerChoice == NoCategory:
		return PhaseChoosingPlayer
	}
	return PhasePlaying
}

// CorrectFor returns the running correct counter for c.
func (r Round) CorrectFor(c Category) int {
	if !c.Valid() {
		return 0
	}
	return r.Correct[c]
}

// Totals returns the number of cells per category on the full board.
func (r Round) Totals() map[Category]int {
	return map[Category]int{
		CategoryA: r.Board.CountOf(CategoryA),
		CategoryB: r.Board.CountOf(CategoryB),
	}
}

// Remaining returns how many cells of the player's category are still to find.
func (r Round) Remaining() int {
	if r.PlayerChoice == NoCategory {
		return 0
	}
	return r.Board.CountOf(r.PlayerChoice) - r.Score
}

// ChoosePlayer declares the player's category. It is ignored once a choice
// exists or the round is over.
func ChoosePlayer(r Round, c Category) (Round, error) {
	if !c.Valid() {
		return r, fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	if r.GameOver || r.PlayerChoice != NoCategory {
		return r, nil
	}
	r.PlayerChoice = c
	return r, nil
}

// Reveal applies a click on index. Out-of-order clicks return r unchanged.
func Reveal(r Round, index int) (Round, error) {
	if !r.Board.InBounds(index) {
		return r, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, index, len(r.Board.Cells))
	}
	if r.GameOver || r.PlayerChoice == NoCategory || r.Board.Cells[index].Revealed {
		return r, nil
	}

	clicked := r.Board.Cells[index]
	next := r
	next.Board = r.Board.Clone()
	switch r.Config.Reveal {
	case RevealOne:
		next.Board.Cells[index].Revealed = true
	default:
		for i := range next.Board.Cells {
			next.Board.Cells[i].Revealed = true
		}
	}
	next.Reveals++

	if clicked.Category != r.PlayerChoice {
		next.GameOver = true
		next.Outcome = OutcomeLost
		next.Message = lossMessage(r.Config.Labels, r.PlayerChoice.Opponent())
		return next, nil
	}
	next.Score++
	next.Correct[r.PlayerChoice]++
	return Settle(next), nil
}

// CheckWin reports whether score covers every cell of choice on the full board.
func CheckWin(board Board, choice Category, score int) bool {
	if !choice.Valid() {
		return false
	}
	return score == board.CountOf(choice)
}

// Settle applies a pending win. It only fires after at least one accepted
// reveal and leaves an already finished round untouched, so calling it any
// number of times after any change yields a single win message.
func Settle(r Round) Round {
	if r.GameOver || r.PlayerChoice == NoCategory || r.Reveals == 0 {
		return r
	}
	if !CheckWin(r.Board, r.PlayerChoice, r.Score) {
		return r
	}
	r.GameOver = true
	r.Outcome = OutcomeWon
	r.Message = WinMessage
	return r
}

func lossMessage(labels Labels, winner Category) string {
	return fmt.Sprintf("💥 Wrong tile! %s wins by consistency!", strings.ToUpper(labels.Label(winner)))
}
