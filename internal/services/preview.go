package services

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/redjax/notetabs/internal/notes"
)

// PreviewService renders notes as Markdown into a standalone HTML page.
type PreviewService struct {
	tempDir string
	md      goldmark.Markdown
	open    func(path string) error
}

// NewPreviewService creates a new preview service
func NewPreviewService() *PreviewService {
	return &PreviewService{
		tempDir: os.TempDir(),
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.TaskList,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				// Notes are typed as plain text, so every line break counts.
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		),
		open: openInBrowser,
	}
}

type previewSection struct {
	Title string
	Style template.CSS
	Body  template.HTML
}

// RenderHTML writes a page with one section per note, in order. Raw HTML in
// note content is not passed through.
func (p *PreviewService) RenderHTML(w io.Writer, title string, list []notes.Note) error {
	sections := make([]previewSection, 0, len(list))
	for _, n := range list {
		var buf bytes.Buffer
		if err := p.md.Convert([]byte(n.Content), &buf); err != nil {
			return fmt.Errorf("failed to convert note %s: %w", n.ID, err)
		}
		sections = append(sections, previewSection{
			Title: n.DisplayTitle(),
			Style: sectionStyle(n),
			Body:  template.HTML(buf.String()),
		})
	}

	return pageTemplate.Execute(w, struct {
		Title    string
		Sections []previewSection
	}{title, sections})
}

// sectionStyle colors a section header like the note's tab. Colors that do
// not parse are left out.
func sectionStyle(n notes.Note) template.CSS {
	bg, fg := n.DisplayColors()
	if bg == "" {
		return ""
	}
	if _, err := notes.RelativeLuminance(bg); err != nil {
		return ""
	}
	if _, err := notes.RelativeLuminance(fg); err != nil {
		fg = notes.DarkForeground
	}
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s;", bg, fg))
}

// Preview renders list to a temporary HTML file and opens it in the default
// browser. It returns the file path.
func (p *PreviewService) Preview(title string, list []notes.Note) (string, error) {
	var buf bytes.Buffer
	if err := p.RenderHTML(&buf, title, list); err != nil {
		return "", err
	}

	path := filepath.Join(p.tempDir, "notetabs-preview.html")
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}

	if err := p.open(path); err != nil {
		return path, fmt.Errorf("failed to open browser: %w", err)
	}
	return path, nil
}

// openInBrowser opens the file in the default browser using OS-specific commands
func openInBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
:root { --bg: #ffffff; --fg: #24292e; --border: #e1e4e8; --code-bg: #f6f8fa; --link: #0366d6; }
@media (prefers-color-scheme: dark) {
  :root { --bg: #0d1117; --fg: #c9d1d9; --border: #30363d; --code-bg: #161b22; --link: #58a6ff; }
}
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.6; color: var(--fg); background: var(--bg); max-width: 880px; margin: 0 auto; padding: 32px; }
section.note { border: 1px solid var(--border); border-radius: 8px; margin-bottom: 24px; overflow: hidden; }
section.note > h2 { margin: 0; padding: 8px 16px; font-size: 1.1em; border-bottom: 1px solid var(--border); }
section.note > div { padding: 8px 16px; }
a { color: var(--link); }
code, pre { background: var(--code-bg); border-radius: 6px; font-family: ui-monospace, Menlo, Consolas, monospace; }
code { padding: 0.2em 0.4em; }
pre { padding: 12px; overflow: auto; }
pre code { padding: 0; }
blockquote { margin: 0 0 16px; padding: 0 1em; border-left: 0.25em solid var(--border); }
table { border-collapse: collapse; }
th, td { border: 1px solid var(--border); padding: 4px 10px; }
del { text-decoration: line-through; }
</style>
</head>
<body>
{{range .Sections}}<section class="note">
<h2{{if .Style}} style="{{.Style}}"{{end}}>{{.Title}}</h2>
<div>{{.Body}}</div>
</section>
{{end}}</body>
</html>
`))
