package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// MarkdownHarmonics renders a harmonics table as a Markdown document with
// one table row per node.
func (p *Printer) MarkdownHarmonics(open pitch.Pitch, rows []harmonics.HarmonicRow, region int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s string", p.name(open))
	if region != harmonics.NoRegion {
		fmt.Fprintf(&b, ", %s octave", pitch.Ordinal(region))
	}
	b.WriteString("\n\n")
	b.WriteString("| Harmonic | Node | Sounds | Cents | Finger at | Cents | Position octave |\n")
	b.WriteString("|---:|---:|---|---:|---|---:|---|\n")

	for _, row := range rows {
		for _, node := range row.Nodes {
			fmt.Fprintf(&b, "| %d | %d | %s | %s | %s | %s | %s |\n",
				row.Harmonic, node.Index,
				p.name(row.Sounding.Pitch), pitch.Signed(row.Sounding.RoundedCents()),
				p.name(node.Match.Pitch), pitch.Signed(node.Match.RoundedCents()),
				pitch.Ordinal(node.Region))
		}
	}
	return b.String()
}

// MarkdownNotes renders a notes chart with one section per note.
func (p *Printer) MarkdownNotes(charts []harmonics.NoteChart, tuning harmonics.Tuning) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Harmonics on %s\n", strings.Join(tuning.Names(p.Spelling), ", "))
	for _, chart := range charts {
		fmt.Fprintf(&b, "\n## %s\n\n", p.name(chart.Note))
		if len(chart.Positions) == 0 {
			b.WriteString("No harmonic fingering.\n")
			continue
		}
		b.WriteString("| String | Harmonic | Node | Finger at | Cents | Sounds | Cents |\n")
		b.WriteString("|---|---:|---:|---|---:|---|---:|\n")
		for _, pos := range chart.Positions {
			fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s | %s |\n",
				Roman(pos.String+1), pos.Harmonic, pos.Node.Index,
				p.name(pos.Node.Match.Pitch), pitch.Signed(pos.Node.Match.RoundedCents()),
				p.name(pos.Sounding.Pitch), pitch.Signed(pos.Sounding.RoundedCents()))
		}
	}
	return b.String()
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

var page = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #ccc; padding: 0.2rem 0.6rem; }
  </style>
</head>
<body>
{{.Content}}
</body>
</html>
`))

// HTML converts Markdown to an HTML fragment.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Page renders Markdown as a standalone HTML document.
func Page(title, md string) (string, error) {
	content, err := HTML(md)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title   string
		Content template.HTML
	}{title, template.HTML(content)})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}
