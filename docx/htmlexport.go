package docx

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"qpc/docmodel"
	"qpc/stylemap"
)

// standalone document shell. The body is pre-rendered, everything else
// is template substitution.
const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>{{ .Title | default "Untitled" }}</title>
<meta name="generator" content="qpc"/>
<style>
body { font-family: Georgia, serif; max-width: 46em; margin: 2em auto; padding: 0 1em; line-height: 1.5; }
h1, h2, h3, h4, h5, h6 { font-family: Helvetica, Arial, sans-serif; }
.doc-title { text-align: center; font-size: 2.2em; }
.doc-subtitle { text-align: center; color: #595959; font-style: italic; }
blockquote { margin-left: 2em; }
table.columns { width: 100%; border-collapse: collapse; table-layout: fixed; }
table.columns td { vertical-align: top; padding: 0 0.5em; }
.page-break { page-break-after: always; }
nav.toc ul { list-style: none; }
img { max-width: 100%; }
</style>
</head>
<body>
{{ .Body }}
</body>
</html>
`

// HTMLExporter renders the block sequence as a styled standalone HTML
// document, the alternate export target next to the binary container.
type HTMLExporter struct {
	log    *zap.Logger
	styles *stylemap.Map
	tmpl   *template.Template
}

func NewHTMLExporter(styles *stylemap.Map, log *zap.Logger) (*HTMLExporter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if styles == nil {
		styles = stylemap.New()
	}
	tmpl, err := template.New("html-export").Funcs(sprig.FuncMap()).Parse(htmlShell)
	if err != nil {
		return nil, fmt.Errorf("unable to parse export template: %w", err)
	}
	return &HTMLExporter{log: log.Named("htmlexport"), styles: styles, tmpl: tmpl}, nil
}

// Generate writes the standalone HTML file.
func (e *HTMLExporter) Generate(ctx context.Context, blocks []docmodel.Block, title, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.log.Info("Generating HTML", zap.String("output", outputPath), zap.Int("blocks", len(blocks)))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	var buf bytes.Buffer
	err := e.tmpl.Execute(&buf, map[string]any{
		"Title": title,
		"Body":  e.renderBlocks(blocks),
	})
	if err != nil {
		return fmt.Errorf("unable to expand export template: %w", err)
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0644)
}

func (e *HTMLExporter) renderBlocks(blocks []docmodel.Block) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block := block.(type) {
		case *docmodel.Paragraph:
			e.renderParagraph(&b, block)
		case *docmodel.Image:
			renderImage(&b, block)
		case *docmodel.TableRow:
			e.renderRow(&b, block)
		case *docmodel.Callout:
			for _, p := range block.Content {
				e.renderParagraph(&b, p)
			}
		case *docmodel.PageBreak:
			b.WriteString(`<div class="page-break"></div>` + "\n")
		case *docmodel.TOCMarker:
			e.renderTOC(&b, blocks)
		}
	}
	return b.String()
}

func (e *HTMLExporter) renderParagraph(b *strings.Builder, p *docmodel.Paragraph) {
	sel := e.styles.ToHTML(p.Style)

	var styleAttrs []string
	if p.Alignment != docmodel.AlignDefault {
		styleAttrs = append(styleAttrs, "text-align: "+p.Alignment.String())
	}
	if p.Shading != "" {
		styleAttrs = append(styleAttrs, "background-color: #"+p.Shading, "padding: 0.4em 0.8em")
	}
	if p.Indent.Left > 0 {
		styleAttrs = append(styleAttrs, fmt.Sprintf("margin-left: %dpt", p.Indent.Left/20))
	}

	b.WriteString("<" + sel.Tag)
	if sel.ClassName != "" {
		b.WriteString(` class="` + sel.ClassName + `"`)
	}
	if len(styleAttrs) > 0 {
		b.WriteString(` style="` + strings.Join(styleAttrs, "; ") + `"`)
	}
	b.WriteString(">")
	for _, r := range p.Runs {
		if r.LineBreak {
			b.WriteString("<br/>")
			continue
		}
		b.WriteString(renderRun(r))
	}
	b.WriteString("</" + sel.Tag + ">\n")
}

func renderRun(r docmodel.TextRun) string {
	content := html.EscapeString(r.Text)
	f := r.Flags
	if f.SuperScript {
		content = "<sup>" + content + "</sup>"
	}
	if f.SubScript {
		content = "<sub>" + content + "</sub>"
	}
	if f.Strike {
		content = "<s>" + content + "</s>"
	}
	if f.Underline {
		content = "<u>" + content + "</u>"
	}
	if f.Italics {
		content = "<em>" + content + "</em>"
	}
	if f.Bold {
		content = "<strong>" + content + "</strong>"
	}

	var styleAttrs []string
	if f.Color != "" {
		styleAttrs = append(styleAttrs, "color: #"+f.Color)
	}
	if f.Font != "" {
		styleAttrs = append(styleAttrs, "font-family: '"+f.Font+"'")
	}
	if len(styleAttrs) > 0 {
		content = `<span style="` + strings.Join(styleAttrs, "; ") + `">` + content + "</span>"
	}
	return content
}

func renderImage(b *strings.Builder, img *docmodel.Image) {
	style := ""
	switch img.Alignment {
	case docmodel.AlignCenter:
		style = ` style="display: block; margin: 0 auto"`
	case docmodel.AlignRight:
		style = ` style="display: block; margin-left: auto"`
	}
	fmt.Fprintf(b, `<img src="data:image/%s;base64,%s" width="%d" height="%d"%s/>`+"\n",
		img.Format, base64.StdEncoding.EncodeToString(img.Data), img.Width, img.Height, style)
}

func (e *HTMLExporter) renderRow(b *strings.Builder, row *docmodel.TableRow) {
	b.WriteString(`<table class="columns"><tr>`)
	for _, cell := range row.Cells {
		b.WriteString("<td>")
		for _, p := range cell {
			e.renderParagraph(b, p)
		}
		b.WriteString("</td>")
	}
	b.WriteString("</tr></table>\n")
}

// renderTOC emits a plain link-less contents list. Page numbers would be
// meaningless in continuous HTML.
func (e *HTMLExporter) renderTOC(b *strings.Builder, blocks []docmodel.Block) {
	entries := ComputeTOC(blocks, 0, 3)
	if len(entries) == 0 {
		return
	}
	b.WriteString(`<nav class="toc"><ul>` + "\n")
	for _, entry := range entries {
		fmt.Fprintf(b, `<li style="margin-left: %dem">%s</li>`+"\n",
			entry.Level-1, html.EscapeString(entry.Text))
	}
	b.WriteString("</ul></nav>\n")
}
