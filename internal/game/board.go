package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration reports a grid size or policy the generator cannot honour.
	ErrConfiguration = errors.New("invalid board configuration")
	// ErrInvalidIndex reports a reveal outside the board.
	ErrInvalidIndex = errors.New("cell index out of range")
	// ErrInvalidCategory reports a player choice that is neither category.
	ErrInvalidCategory = errors.New("invalid category")
)

// Category is the hidden label of a cell. The zero value means "none".
type Category int

const (
	NoCategory Category = iota
	CategoryA
	CategoryB
)

// Categories lists the playable categories in display order.
func Categories() []Category {
	return []Category{CategoryA, CategoryB}
}

// Valid reports whether c is one of the two playable categories.
func (c Category) Valid() bool {
	return c == CategoryA || c == CategoryB
}

// Opponent returns the other playable category.
func (c Category) Opponent() Category {
	switch c {
	case CategoryA:
		return CategoryB
	case CategoryB:
		return CategoryA
	}
	return NoCategory
}

func (c Category) String() string {
	switch c {
	case CategoryA:
		return "A"
	case CategoryB:
		return "B"
	}
	return "none"
}

// Cell is one grid position.
type Cell struct {
	Category Category
	Revealed bool
}

// Board is a row-major grid of cells with a fixed size for the whole round.
type Board struct {
	Rows  int
	Cols  int
	Cells []Cell
}

// Count returns Rows*Cols.
func (b Board) Count() int {
	return b.Rows * b.Cols
}

// Index maps a row/column pair to its row-major index.
func (b Board) Index(row, col int) int {
	return row*b.Cols + col
}

// InBounds reports whether index addresses a cell.
func (b Board) InBounds(index int) bool {
	return index >= 0 && index < len(b.Cells)
}

// CountOf returns how many cells hold category c, revealed or not.
func (b Board) CountOf(c Category) int {
	n := 0
	for _, cell := range b.Cells {
		if cell.Category == c {
			n++
		}
	}
	return n
}

// RevealedCount returns how many cells have been revealed.
func (b Board) RevealedCount() int {
	n := 0
	for _, cell := range b.Cells {
		if cell.Revealed {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no cell storage with b.
func (b Board) Clone() Board {
	cells := make([]Cell, len(b.Cells))
	copy(cells, b.Cells)
	return Board{Rows: b.Rows, Cols: b.Cols, Cells: cells}
}

// FillPolicy selects how Generate assigns categories.
type FillPolicy int

const (
	// FillBalanced places exactly Count/2 cells of each category, shuffled.
	FillBalanced FillPolicy = iota
	// FillCoinFlip assigns each cell independently with probability 0.5.
	FillCoinFlip
)

func (p FillPolicy) String() string {
	switch p {
	case FillBalanced:
		return "balanced"
	case FillCoinFlip:
		return "coinflip"
	}
	return fmt.Sprintf("FillPolicy(%d)", int(p))
}

// ParseFillPolicy accepts "balanced" or "coinflip" (also "coin-flip", "coin").
func ParseFillPolicy(value string) (FillPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "balanced", "shuffle":
		return FillBalanced, nil
	case "coinflip", "coin-flip", "coin":
		return FillCoinFlip, nil
	}
	return 0, fmt.Errorf("%w: unknown fill policy %q", ErrConfiguration, value)
}

// Rand is the random source used for board generation. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Generate builds a fresh, fully hidden board.
func Generate(rows, cols int, policy FillPolicy, rng Rand) (Board, error) {
	if rows < 1 || cols < 1 {
		return Board{}, fmt.Errorf("%w: grid %dx%d", ErrConfiguration, rows, cols)
	}
	count := rows * cols
	var cells []Cell
	switch policy {
	case FillBalanced:
		if count%2 != 0 {
			return Board{}, fmt.Errorf("%w: balanced fill needs an even cell count, got %d", ErrConfiguration, count)
		}
		cells = balancedCells(count, rng)
	case FillCoinFlip:
		cells = coinFlipCells(count, rng)
	default:
		return Board{}, fmt.Errorf("%w: unknown fill policy %d", ErrConfiguration, int(policy))
	}
	return Board{Rows: rows, Cols: cols, Cells: cells}, nil
}

func balancedCells(count int, rng Rand) []Cell {
	cells := make([]Cell, count)
	half := count / 2
	for i := range cells {
		if i < half {
			cells[i].Category = CategoryA
		} else {
			cells[i].Category = CategoryB
		}
	}
	// Fisher-Yates
	for i := len(cells) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

func coinFlipCells(count int, rng Rand) []Cell {
	cells := make([]Cell, count)
	for i := range cells {
		if rng.Intn(2) == 0 {
			cells[i].Category = CategoryA
		} else {
			cells[i].Category = CategoryB
		}
	}
	return cells
}
