package templates

import (
	"context"

	"github.com/a-h/templ"
)

type navItem struct {
	Path  string
	Label string
}

var nav = []navItem{
	{"/", "Summary"},
	{"/correlation", "Correlation"},
	{"/hypothesis", "Hypotheses"},
	{"/model", "Model"},
	{"/predict", "Prediction"},
}

// Layout wraps a page body with the document shell and navigation.
func Layout(title, active string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title + " · pricepaid")
		h.raw(`</title>`)
		h.raw(`<link rel="stylesheet" href="/static/style.css">`)
		h.raw(`<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js" defer></script>`)
		h.raw(`<script src="/static/charts.js" defer></script>`)
		h.raw(`</head><body><nav class="nav"><span class="brand">pricepaid</span><ul>`)
		for _, item := range nav {
			h.raw(`<li><a`)
			h.url("href", templ.SafeURL(item.Path))
			if item.Path == active {
				h.raw(` class="active" aria-current="page"`)
			}
			h.raw(`>`)
			h.text(item.Label)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></nav><main class="content"><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

// ErrorPanel shows a message that stops the page.
func ErrorPanel(msg string) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<div class="panel panel-error" role="alert">`)
		h.text(msg)
		h.raw(`</div>`)
	})
}

func notice(h *writer, class, msg string) {
	h.rawf(`<div class="panel panel-%s">`, class)
	h.text(msg)
	h.raw(`</div>`)
}

func card(h *writer, label, value string) {
	h.raw(`<div class="card"><div class="card-label">`)
	h.text(label)
	h.raw(`</div><div class="card-value">`)
	h.text(value)
	h.raw(`</div></div>`)
}

func chart(h *writer, id, kind string, src templ.SafeURL, title string) {
	h.raw(`<figure class="chart"><figcaption>`)
	h.text(title)
	h.raw(`</figcaption><canvas`)
	h.attr("id", id)
	h.attr("data-chart", kind)
	h.url("data-src", src)
	h.raw(`></canvas></figure>`)
}
