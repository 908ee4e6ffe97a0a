// Package components holds the HTML fragments swapped in by htmx and SSE.
package components

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"tilesweeper/internal/viewmodel"
)

var boardTmpl = template.Must(template.New("board").Parse(`<section id="board" class="board" data-phase="{{.Phase}}">
{{- if not .HasChoice}}
  <div class="role-select">
    <p>Select your player:</p>
    {{- range .Choices}}
    <form method="post" action="/game/{{$.SessionID}}/choose" hx-post="/game/{{$.SessionID}}/choose" hx-target="#board" hx-swap="outerHTML">
      <input type="hidden" name="category" value="{{.Value}}">
      <button type="submit">I'm {{.Label}}</button>
    </form>
    {{- end}}
  </div>
{{- else}}
  <div class="scoreboard">
    {{- range .Scores}}
    <div>{{.Label}} Score: {{.Correct}}</div>
    {{- end}}
  </div>
  <p>You are playing as: <strong>{{.PlayerLabel}}</strong></p>
{{- end}}
{{- if .Message}}
  <div class="message">{{.Message}}</div>
{{- end}}
  <div class="grid" style="grid-template-columns: repeat({{.Cols}}, 1fr)">
    {{- range .Cells}}
    <form method="post" action="/game/{{$.SessionID}}/reveal/{{.Index}}" hx-post="/game/{{$.SessionID}}/reveal/{{.Index}}" hx-target="#board" hx-swap="outerHTML">
      <button class="square{{if .Revealed}} square-{{.Category}}{{end}}" type="submit"{{if .Disabled}} disabled{{end}}>{{if .Revealed}}{{.Label}}{{end}}</button>
    </form>
    {{- end}}
  </div>
{{- if .ShowTotals}}
  <div class="tile-ratio">
    {{- range .Scores}}
    <p>Total {{.Label}}: {{.Total}}</p>
    {{- end}}
  </div>
{{- end}}
  <form method="post" action="/game/{{.SessionID}}/new" hx-post="/game/{{.SessionID}}/new" hx-target="#board" hx-swap="outerHTML">
    <button class="new-game-button" type="submit">New Game</button>
  </form>
</section>`))

// Board renders the role select, scoreboard, grid and new-game button.
func Board(data viewmodel.BoardFragment) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return boardTmpl.Execute(w, data)
	})
}
