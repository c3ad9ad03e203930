package ui

import (
	"html/template"

	"coursedash/app"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Notice is one rendered banner on the dashboard page.
type Notice struct {
	Level string
	HTML  template.HTML
}

// renderMarkdown converts a short markdown message to HTML. Raw HTML in
// the input is escaped.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

// notices builds the page banners: the empty-state guidance first, then one
// warning per file that could not be ingested.
func notices(d *app.Dashboard) []Notice {
	var out []Notice
	if d.Message != "" {
		out = append(out, Notice{Level: "info", HTML: renderMarkdown(d.Message)})
	}
	for _, w := range d.Warnings {
		md := "**" + markdownEscape(w.File) + "** could not be loaded: " + markdownEscape(w.Message)
		out = append(out, Notice{Level: "warning", HTML: renderMarkdown(md)})
	}
	return out
}

func markdownEscape(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>', '#':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
