package reporting

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Skill Quality Report: {{.Title}}</title>
</head>
<body>
{{.Body}}</body>
</html>
`))

// markdownRenderer converts the Markdown report; GFM enables the category table.
var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// WriteHTML renders the Markdown report to a standalone HTML page.
func WriteHTML(w io.Writer, r *Report) error {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(RenderMarkdown(r)), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlPage.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: r.SkillName,
		Body:  template.HTML(body.String()), //nolint:gosec // goldmark escapes raw HTML by default
	})
}
