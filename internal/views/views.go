package views

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var files embed.FS

// md renders GitHub flavoured markdown. Raw HTML in the source is omitted
// and unsafe link schemes are dropped, so the output can be trusted.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders source to HTML for the file viewer.
func Markdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		slog.Error("render markdown", "error", err)
		return template.HTML("<pre>" + template.HTMLEscapeString(source) + "</pre>")
	}
	return template.HTML(buf.String())
}

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"filesize": func(size int64) string {
		if size < 0 {
			size = 0
		}
		return humanize.Bytes(uint64(size))
	},
	"lines": func(s string) []string {
		return strings.Split(strings.TrimRight(s, "\n"), "\n")
	},
	"add":      func(a, b int) int { return a + b },
	"markdown": Markdown,
}

// Templates parses the embedded page templates. Pages are addressed by the
// name of their define block, e.g. "column/index".
func Templates() (*template.Template, error) {
	return template.New("kanboard").Funcs(Funcs).ParseFS(files, "templates/*.html")
}

// MustTemplates is Templates for process start-up.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
