package game

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

// fixedRound builds a round over a known layout; cats are row-major.
func fixedRound(cfg Config, cats ...Category) Round {
	cells := make([]Cell, len(cats))
	for i, c := range cats {
		cells[i] = Cell{Category: c}
	}
	return Round{Config: cfg, Board: Board{Rows: cfg.Rows, Cols: cfg.Cols, Cells: cells}}
}

func revealOneConfig(rows, cols int) Config {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = rows, cols
	cfg.Reveal = RevealOne
	return cfg
}

func mustReveal(t *testing.T, r Round, index int) Round {
	t.Helper()
	next, err := Reveal(r, index)
	if err != nil {
		t.Fatalf("Reveal(%d): %v", index, err)
	}
	return next
}

func TestNewGame(t *testing.T) {
	r, err := NewGame(DefaultConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if r.Board.Count() != 16 || len(r.Board.Cells) != 16 {
		t.Errorf("board %d cells, want 16", len(r.Board.Cells))
	}
	if r.Score != 0 || r.GameOver || r.Message != "" || r.PlayerChoice != NoCategory {
		t.Errorf("fresh round not zeroed: %+v", r)
	}
	if r.Phase() != PhaseChoosingPlayer {
		t.Errorf("Phase %q, want %q", r.Phase(), PhaseChoosingPlayer)
	}
}

func TestNewGame_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 3, 3
	_, err := NewGame(cfg, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("err %v, want ErrConfiguration", err)
	}
}

func TestChoosePlayer(t *testing.T) {
	r := fixedRound(revealOneConfig(1, 2), CategoryA, CategoryB)

	r, err := ChoosePlayer(r, CategoryA)
	if err != nil {
		t.Fatalf("ChoosePlayer: %v", err)
	}
	if r.PlayerChoice != CategoryA {
		t.Errorf("PlayerChoice %v, want A", r.PlayerChoice)
	}
	if r.Phase() != PhasePlaying {
		t.Errorf("Phase %q, want playing", r.Phase())
	}

	// second choice is ignored
	r, err = ChoosePlayer(r, CategoryB)
	if err != nil {
		t.Fatalf("ChoosePlayer again: %v", err)
	}
	if r.PlayerChoice != CategoryA {
		t.Errorf("PlayerChoice changed to %v", r.PlayerChoice)
	}

	if _, err := ChoosePlayer(r, NoCategory); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("err %v, want ErrInvalidCategory", err)
	}
}

func TestChoosePlayer_AfterGameOver(t *testing.T) {
	r := fixedRound(revealOneConfig(1, 2), CategoryA, CategoryB)
	r.GameOver = true
	r, _ = ChoosePlayer(r, CategoryA)
	if r.PlayerChoice != NoCategory {
		t.Error("choice accepted after game over")
	}
}

func TestReveal_BeforeChoiceIsNoop(t *testing.T) {
	r := fixedRound(revealOneConfig(1, 2), CategoryA, CategoryB)
	next := mustReveal(t, r, 0)
	if next.Board.RevealedCount() != 0 || next.Reveals != 0 || next.GameOver {
		t.Errorf("reveal without a choice changed state: %+v", next)
	}
}

func TestReveal_InvalidIndex(t *testing.T) {
	r := fixedRound(revealOneConfig(1, 2), CategoryA, CategoryB)
	r, _ = ChoosePlayer(r, CategoryA)
	for _, idx := range []int{-1, 2, 100} {
		next, err := Reveal(r, idx)
		if !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("Reveal(%d) err %v, want ErrInvalidIndex", idx, err)
		}
		if next.Reveals != r.Reveals || next.Board.RevealedCount() != 0 {
			t.Errorf("Reveal(%d) changed state", idx)
		}
	}
}

func TestReveal_LossOnFirstWrongTile(t *testing.T) {
	cfg := revealOneConfig(2, 2)
	r := fixedRound(cfg, CategoryB, CategoryA, CategoryA, CategoryB)
	r, _ = ChoosePlayer(r, CategoryA)

	r = mustReveal(t, r, 0)
	if !r.GameOver {
		t.Fatal("GameOver should be true")
	}
	if r.Outcome != OutcomeLost || r.Phase() != PhaseLost {
		t.Errorf("Outcome %v, want lost", r.Outcome)
	}
	if r.Score != 0 {
		t.Errorf("Score %d, want 0", r.Score)
	}
	if !strings.Contains(r.Message, "BANANA wins") {
		t.Errorf("Message %q should name BANANA as winner", r.Message)
	}
}

func TestReveal_LossMessageFallsBackToCategoryName(t *testing.T) {
	cfg := revealOneConfig(1, 2)
	cfg.Labels = Labels{}
	r := fixedRound(cfg, CategoryA, CategoryB)
	r, _ = ChoosePlayer(r, CategoryB)
	r = mustReveal(t, r, 0)
	if !strings.Contains(r.Message, "A wins by consistency") {
		t.Errorf("Message %q should name A", r.Message)
	}
}

func TestReveal_WinAfterAllChosenCells(t *testing.T) {
	r, err := NewGame(revealOneConfig(4, 4), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	r, _ = ChoosePlayer(r, CategoryA)
	total := r.Board.CountOf(CategoryA)
	if total != 8 {
		t.Fatalf("A count %d, want 8", total)
	}

	found := 0
	for i, cell := range r.Board.Cells {
		if cell.Category != CategoryA {
			continue
		}
		r = mustReveal(t, r, i)
		found++
		if found < total && r.GameOver {
			t.Fatalf("round ended after %d of %d", found, total)
		}
	}
	if !r.GameOver || r.Outcome != OutcomeWon {
		t.Fatalf("GameOver %v Outcome %v, want won", r.GameOver, r.Outcome)
	}
	if r.Score != 8 || r.CorrectFor(CategoryA) != 8 || r.CorrectFor(CategoryB) != 0 {
		t.Errorf("Score %d A %d B %d, want 8/8/0", r.Score, r.CorrectFor(CategoryA), r.CorrectFor(CategoryB))
	}
	if r.Message != WinMessage {
		t.Errorf("Message %q, want %q", r.Message, WinMessage)
	}
	if r.Board.RevealedCount() != 8 {
		t.Errorf("RevealedCount %d, want 8", r.Board.RevealedCount())
	}
}

func TestReveal_AllPolicyDisclosesBoard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 2, 2
	r := fixedRound(cfg, CategoryA, CategoryB, CategoryA, CategoryB)
	r, _ = ChoosePlayer(r, CategoryA)

	r = mustReveal(t, r, 0)
	if r.Board.RevealedCount() != 4 {
		t.Errorf("RevealedCount %d, want 4", r.Board.RevealedCount())
	}
	if r.Score != 1 || r.GameOver {
		t.Errorf("Score %d GameOver %v, want 1 false", r.Score, r.GameOver)
	}
	// every cell is now revealed, so further clicks are no-ops
	next := mustReveal(t, r, 2)
	if next.Score != 1 || next.Reveals != 1 {
		t.Errorf("click on revealed cell changed state")
	}
}

func TestReveal_AllPolicySingleTargetWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 1, 2
	r := fixedRound(cfg, CategoryA, CategoryB)
	r, _ = ChoosePlayer(r, CategoryA)
	r = mustReveal(t, r, 0)
	if r.Outcome != OutcomeWon {
		t.Errorf("Outcome %v, want won", r.Outcome)
	}
}

func TestReveal_AfterGameOverIsNoop(t *testing.T) {
	r := fixedRound(revealOneConfig(2, 2), CategoryB, CategoryA, CategoryA, CategoryB)
	r, _ = ChoosePlayer(r, CategoryA)
	r = mustReveal(t, r, 0)

	next := mustReveal(t, r, 1)
	if next.Score != r.Score || next.Reveals != r.Reveals || next.Message != r.Message {
		t.Error("reveal after game over changed state")
	}
	if next.Board.Cells[1].Revealed {
		t.Error("cell revealed after game over")
	}
}

func TestReveal_Idempotent(t *testing.T) {
	r := fixedRound(revealOneConfig(2, 2), CategoryA, CategoryA, CategoryB, CategoryB)
	r, _ = ChoosePlayer(r, CategoryA)
	once := mustReveal(t, r, 0)
	twice := mustReveal(t, once, 0)
	if once.Score != twice.Score || once.Reveals != twice.Reveals || once.GameOver != twice.GameOver {
		t.Errorf("second reveal changed state: %+v vs %+v", once, twice)
	}
	for i := range once.Board.Cells {
		if once.Board.Cells[i] != twice.Board.Cells[i] {
			t.Errorf("cell %d differs", i)
		}
	}
}

func TestReveal_DoesNotAliasPreviousSnapshot(t *testing.T) {
	r := fixedRound(revealOneConfig(2, 2), CategoryA, CategoryA, CategoryB, CategoryB)
	r, _ = ChoosePlayer(r, CategoryA)
	next := mustReveal(t, r, 0)
	if r.Board.Cells[0].Revealed {
		t.Error("previous snapshot was mutated")
	}
	if !next.Board.Cells[0].Revealed {
		t.Error("next snapshot missing reveal")
	}
}

func TestReveal_ScoreMonotonic(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		cfg := revealOneConfig(4, 4)
		if seed%2 == 0 {
			cfg.Fill = FillCoinFlip
		}
		r, err := NewGame(cfg, rng)
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		r, _ = ChoosePlayer(r, Categories()[seed%2])
		prev := r.Score
		for step := 0; step < 40; step++ {
			r = mustReveal(t, r, rng.Intn(r.Board.Count()))
			if r.Score < prev {
				t.Fatalf("seed %d: score decreased %d -> %d", seed, prev, r.Score)
			}
			prev = r.Score
		}
		if r.GameOver && r.Outcome == OutcomeNone {
			t.Errorf("seed %d: GameOver without outcome", seed)
		}
	}
}

func TestReveal_CoinFlipNoChosenCells(t *testing.T) {
	cfg := revealOneConfig(2, 2)
	cfg.Fill = FillCoinFlip
	r, err := NewGame(cfg, &seqRand{vals: []int{1}})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	r, _ = ChoosePlayer(r, CategoryA)
	if Settle(r).GameOver {
		t.Fatal("trivial win awarded before any reveal")
	}
	r = mustReveal(t, r, 0)
	if r.Outcome != OutcomeLost {
		t.Errorf("Outcome %v, want lost", r.Outcome)
	}
}

func TestCheckWin(t *testing.T) {
	b := Board{Rows: 1, Cols: 3, Cells: []Cell{{Category: CategoryA}, {Category: CategoryB}, {Category: CategoryA}}}
	if CheckWin(b, CategoryA, 1) {
		t.Error("1 of 2 should not win")
	}
	if !CheckWin(b, CategoryA, 2) {
		t.Error("2 of 2 should win")
	}
	if CheckWin(b, NoCategory, 0) {
		t.Error("no choice never wins")
	}
}

func TestSettle_SingleMessage(t *testing.T) {
	r := fixedRound(revealOneConfig(1, 2), CategoryA, CategoryB)
	r, _ = ChoosePlayer(r, CategoryA)
	r = mustReveal(t, r, 0) // inline check already fired
	if r.Outcome != OutcomeWon {
		t.Fatalf("Outcome %v, want won", r.Outcome)
	}
	again := Settle(Settle(r))
	if again.Message != WinMessage || again.Outcome != OutcomeWon {
		t.Errorf("Settle changed a finished round: %+v", again)
	}
}

func TestSettle_ReactivePath(t *testing.T) {
	// A score that reached the target without the inline check firing.
	r := fixedRound(revealOneConfig(1, 2), CategoryA, CategoryB)
	r.PlayerChoice = CategoryA
	r.Board.Cells[0].Revealed = true
	r.Score, r.Reveals = 1, 1
	r.Correct[CategoryA] = 1

	settled := Settle(r)
	if settled.Outcome != OutcomeWon || settled.Message != WinMessage {
		t.Errorf("Settle did not award the win: %+v", settled)
	}
	if r.GameOver {
		t.Error("Settle mutated its input")
	}
}

func TestNewGame_AfterTerminalResets(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cfg := revealOneConfig(4, 4)
	r, _ := NewGame(cfg, rng)
	r, _ = ChoosePlayer(r, CategoryB)
	for i, cell := range r.Board.Cells {
		if cell.Category == CategoryA {
			r = mustReveal(t, r, i)
			break
		}
	}
	if !r.GameOver {
		t.Fatal("round should be over")
	}

	fresh, err := NewGame(r.Config, rng)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if fresh.Score != 0 || fresh.GameOver || fresh.Message != "" || fresh.PlayerChoice != NoCategory {
		t.Errorf("fresh round not reset: %+v", fresh)
	}
	if fresh.CorrectFor(CategoryA) != 0 || fresh.CorrectFor(CategoryB) != 0 {
		t.Error("counters not reset")
	}
	if fresh.Board.Rows != 4 || fresh.Board.Cols != 4 || fresh.Board.RevealedCount() != 0 {
		t.Errorf("board %dx%d revealed %d, want 4x4 hidden", fresh.Board.Rows, fresh.Board.Cols, fresh.Board.RevealedCount())
	}
}

func TestRound_TotalsAndRemaining(t *testing.T) {
	r := fixedRound(revealOneConfig(1, 3), CategoryA, CategoryB, CategoryA)
	totals := r.Totals()
	if totals[CategoryA] != 2 || totals[CategoryB] != 1 {
		t.Errorf("Totals %v, want A:2 B:1", totals)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining %d without a choice, want 0", r.Remaining())
	}
	r, _ = ChoosePlayer(r, CategoryA)
	r = mustReveal(t, r, 0)
	if r.Remaining() != 1 {
		t.Errorf("Remaining %d, want 1", r.Remaining())
	}
}

func TestLabels_Parse(t *testing.T) {
	l := DefaultConfig().Labels
	cases := map[string]Category{"a": CategoryA, "B": CategoryB, "Chicken": CategoryA, " banana ": CategoryB}
	for in, want := range cases {
		got, err := l.Parse(in)
		if err != nil || got != want {
			t.Errorf("Parse(%q) %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := l.Parse("duck"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("err %v, want ErrInvalidCategory", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig invalid: %v", err)
	}
	cfg.Rows, cfg.Cols = 5, 5
	if err := cfg.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("5x5 balanced err %v, want ErrConfiguration", err)
	}
	cfg.Fill = FillCoinFlip
	if err := cfg.Validate(); err != nil {
		t.Errorf("5x5 coin-flip: %v", err)
	}
	cfg.Reveal = RevealPolicy(9)
	if err := cfg.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown reveal err %v, want ErrConfiguration", err)
	}
}

func TestParseRevealPolicy(t *testing.T) {
	if p, err := ParseRevealPolicy("One"); err != nil || p != RevealOne {
		t.Errorf("ParseRevealPolicy(One) %v, %v", p, err)
	}
	if p, err := ParseRevealPolicy("all"); err != nil || p != RevealAll {
		t.Errorf("ParseRevealPolicy(all) %v, %v", p, err)
	}
	if _, err := ParseRevealPolicy("some"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("err %v, want ErrConfiguration", err)
	}
}
