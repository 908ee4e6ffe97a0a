// Package viewmodel holds the render-ready types shared by the templ views
// and the JSON state endpoint. It does not import the game core.
package viewmodel

// HomePage holds data for the landing page.
type HomePage struct {
	Title  string
	Rows   int
	Cols   int
	Fill   string
	Reveal string
	LabelA string
	LabelB string
}

// CellView is one grid button.
type CellView struct {
	Index    int    `json:"index"`
	Revealed bool   `json:"revealed"`
	Category string `json:"category,omitempty"` // "a" or "b", only once revealed
	Label    string `json:"label,omitempty"`
	Disabled bool   `json:"-"`
}

// ChoiceOption is a category button on the role-select panel.
type ChoiceOption struct {
	Value string
	Label string
}

// CategoryScore is one line of the scoreboard.
type CategoryScore struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total,omitempty"` // only sent once the round is over
}

// BoardFragment holds everything the board panel renders.
type BoardFragment struct {
	SessionID   string          `json:"sessionId"`
	RoundNumber int             `json:"round"`
	Phase       string          `json:"phase"`
	HasChoice   bool            `json:"-"`
	PlayerLabel string          `json:"player,omitempty"`
	Choices     []ChoiceOption  `json:"-"`
	Rows        int             `json:"rows"`
	Cols        int             `json:"cols"`
	Cells       []CellView      `json:"cells"`
	Score       int             `json:"score"`
	Scores      []CategoryScore `json:"scores"`
	GameOver    bool            `json:"gameOver"`
	ShowTotals  bool            `json:"-"`
	Message     string          `json:"message,omitempty"`
}

// GamePage holds data for the main game page.
type GamePage struct {
	Title     string
	SessionID string
	ResumeURL string
	Board     BoardFragment
}
