package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// DefaultMermaidJS is the mermaid bundle loaded by rendered pages.
const DefaultMermaidJS = "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// HTMLOptions controls page rendering.
type HTMLOptions struct {
	Title      string
	Theme      string // "light" or "dark"
	MermaidJS  string
	LiveReload bool
	EventsURL  string
	// DiagramURL links each diagram to its fullscreen page; nil omits links.
	DiagramURL func(index int) string
}

type pageData struct {
	Title        string
	Theme        string
	MermaidTheme string
	MermaidJS    string
	Body         template.HTML
	HasDiagrams  bool
	LiveReload   bool
	EventsURL    string
}

type diagramData struct {
	Title        string
	Theme        string
	MermaidTheme string
	MermaidJS    string
	Code         string
	Back         string
}

// NormalizeTheme maps anything but "dark" to "light".
func NormalizeTheme(theme string) string {
	if theme == "dark" {
		return "dark"
	}
	return "light"
}

// MermaidTheme is the mermaid.js theme matching a page theme.
func MermaidTheme(theme string) string {
	if NormalizeTheme(theme) == "dark" {
		return "dark"
	}
	return "default"
}

func newHTMLMarkdown(diagramURL func(int) string) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&MermaidExtension{DiagramURL: diagramURL},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Fragment converts markdown to an HTML fragment with mermaid blocks
// substituted. Raw HTML in the source is omitted.
func Fragment(md []byte, diagramURL func(int) string) ([]byte, error) {
	var buf bytes.Buffer
	if err := newHTMLMarkdown(diagramURL).Convert(md, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// HTML renders md as a standalone page.
func HTML(md []byte, opts HTMLOptions) ([]byte, error) {
	body, err := Fragment(md, opts.DiagramURL)
	if err != nil {
		return nil, err
	}
	js := opts.MermaidJS
	if js == "" {
		js = DefaultMermaidJS
	}
	events := opts.EventsURL
	if events == "" {
		events = "/events"
	}
	data := pageData{
		Title:        opts.Title,
		Theme:        NormalizeTheme(opts.Theme),
		MermaidTheme: MermaidTheme(opts.Theme),
		MermaidJS:    js,
		Body:         template.HTML(body),
		HasDiagrams:  bytes.Contains(body, []byte(`class="mermaid"`)),
		LiveReload:   opts.LiveReload,
		EventsURL:    events,
	}
	var out bytes.Buffer
	if err := templates.ExecuteTemplate(&out, "page.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out.Bytes(), nil
}

// DiagramPage renders one diagram on its own page, sized to the viewport.
func DiagramPage(d Diagram, title, theme, mermaidJS, back string) ([]byte, error) {
	if mermaidJS == "" {
		mermaidJS = DefaultMermaidJS
	}
	if title == "" {
		title = fmt.Sprintf("Diagram %d", d.Index)
	}
	data := diagramData{
		Title:        title,
		Theme:        NormalizeTheme(theme),
		MermaidTheme: MermaidTheme(theme),
		MermaidJS:    mermaidJS,
		Code:         d.Code,
		Back:         back,
	}
	var out bytes.Buffer
	if err := templates.ExecuteTemplate(&out, "diagram.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("render diagram: %w", err)
	}
	return out.Bytes(), nil
}
