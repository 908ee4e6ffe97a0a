// Package pages holds full-page templ components.
package pages

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"tilesweeper/internal/viewmodel"
	"tilesweeper/views/components"
)

var (
	headTmpl = template.Must(template.New("head").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.}}</title>
  <link rel="stylesheet" href="/static/style.css">
  <script src="https://unpkg.com/htmx.org@1.9.12"></script>
  <script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
</head>
<body>
<main class="container">
`))

	homeTmpl = template.Must(template.New("home").Parse(`  <h1>{{.Title}}</h1>
  <p>Pick {{.LabelA}} or {{.LabelB}}, then find every one of your tiles on a {{.Rows}}&times;{{.Cols}} board. One wrong tile and the round is lost.</p>
  <p class="rules">Board: {{.Fill}}. Reveal: {{.Reveal}}.</p>
  <form method="post" action="/sessions">
    <button type="submit">Start playing</button>
  </form>
`))

	gameTmpl = template.Must(template.New("game").Parse(`  <h1>{{.Title}}</h1>
  <p class="resume">Resume this game: <a href="{{.ResumeURL}}">{{.ResumeURL}}</a></p>
  <div hx-ext="sse" sse-connect="/game/{{.SessionID}}/stream" sse-swap="board" hx-target="#board" hx-swap="outerHTML">
`))

	footTmpl = template.Must(template.New("foot").Parse(`{{if .}}  </div>
{{end}}</main>
</body>
</html>
`))
)

// HomePage renders the landing page.
func HomePage(data viewmodel.HomePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := headTmpl.Execute(w, data.Title); err != nil {
			return err
		}
		if err := homeTmpl.Execute(w, data); err != nil {
			return err
		}
		return footTmpl.Execute(w, false)
	})
}

// GamePage renders the game page with the board wired to the SSE stream.
func GamePage(data viewmodel.GamePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := headTmpl.Execute(w, data.Title); err != nil {
			return err
		}
		if err := gameTmpl.Execute(w, data); err != nil {
			return err
		}
		if err := components.Board(data.Board).Render(ctx, w); err != nil {
			return err
		}
		return footTmpl.Execute(w, true)
	})
}
