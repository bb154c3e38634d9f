package htmlconv

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"qpc/docmodel"
)

// Editor-injected widgets are recognized by CSS class and converted by
// dedicated recipes instead of the generic block handling. They flush
// pending runs first, like any other block boundary.

// stepSpecial returns handled=true when the node carried one of the
// recognized special classes.
func (c *Converter) stepSpecial(ctx context.Context, n *html.Node, flags docmodel.StyleFlags, opts blockOpts, acc *runAccumulator, out *[]docmodel.Block) (bool, error) {
	switch {
	case hasClass(n, "page-break"):
		c.flushInto(acc, opts, out)
		*out = append(*out, &docmodel.PageBreak{})

	case hasClass(n, "toc-placeholder"):
		c.flushInto(acc, opts, out)
		*out = append(*out, &docmodel.TOCMarker{})

	case hasClass(n, "spacing-indicator"):
		c.flushInto(acc, opts, out)
		if content := convertSpacingIndicator(n); len(content) > 0 {
			*out = append(*out, &docmodel.Callout{Kind: docmodel.CalloutSpacing, Content: content})
		}

	case hasClass(n, "dual-coding-callout"):
		c.flushInto(acc, opts, out)
		if content := convertDualCoding(n); len(content) > 0 {
			*out = append(*out, &docmodel.Callout{Kind: docmodel.CalloutDualCoding, Content: content})
		}

	case hasClass(n, "screenplay-block"):
		c.flushInto(acc, opts, out)
		if p := convertScreenplay(n); p != nil {
			*out = append(*out, &docmodel.Callout{Kind: docmodel.CalloutScreenplay, Content: []*docmodel.Paragraph{p}})
		}

	case hasClass(n, "doc-title"), hasClass(n, "doc-subtitle"):
		c.flushInto(acc, opts, out)
		style := "Title"
		if hasClass(n, "doc-subtitle") {
			style = "Subtitle"
		}
		sub, err := c.convertContainer(ctx, n, DeriveStyle(n, flags), blockOpts{
			style:     style,
			alignment: docmodel.AlignCenter,
			spacing:   docmodel.Spacing{After: 240},
		})
		if err != nil {
			return true, err
		}
		*out = append(*out, sub...)

	case hasClass(n, "column-container"):
		c.flushInto(acc, opts, out)
		blocks, err := c.convertColumns(ctx, n, flags, opts)
		if err != nil {
			return true, err
		}
		*out = append(*out, blocks...)

	case hasClass(n, "column-drag-handle"):
		// editor chrome, never content

	default:
		return false, nil
	}
	return true, nil
}

// calloutPalette is the fill/text/accent color triple of one shaded
// widget variant, 6-digit hex without '#'.
type calloutPalette struct {
	fill   string
	text   string
	accent string
}

var spacingPalettes = map[string]calloutPalette{
	"compact":  {fill: "FFF4E5", text: "7A4D00", accent: "B45309"},
	"extended": {fill: "E8F1FB", text: "1F4E79", accent: "2E75B6"},
	"":         {fill: "F2F2F2", text: "404040", accent: "6B6B6B"},
}

// convertSpacingIndicator emits the label and message of a pacing
// annotation as shaded paragraphs colored by its variant class.
func convertSpacingIndicator(n *html.Node) []*docmodel.Paragraph {
	variant := ""
	if hasClass(n, "compact") {
		variant = "compact"
	} else if hasClass(n, "extended") {
		variant = "extended"
	}
	pal := spacingPalettes[variant]

	var out []*docmodel.Paragraph
	if label := childTextByClass(n, "spacing-label"); label != "" {
		out = append(out, shadedParagraph(label, pal.fill, pal.accent, docmodel.StyleFlags{Bold: true}))
	}
	if msg := childTextByClass(n, "spacing-message"); msg != "" {
		out = append(out, shadedParagraph(msg, pal.fill, pal.text, docmodel.StyleFlags{}))
	}
	return out
}

var priorityAccents = map[string]string{
	"high":   "C0392B",
	"medium": "D97706",
	"low":    "7F8C8D",
}

const calloutFill = "F7F5F2"

// convertDualCoding emits a suggestion card as a shaded multi-paragraph
// block with a priority-colored title line.
func convertDualCoding(n *html.Node) []*docmodel.Paragraph {
	priority := strings.ToLower(childTextByClass(n, "callout-priority"))
	if priority == "" {
		priority = strings.ToLower(attrValue(n, "data-priority"))
	}
	accent, ok := priorityAccents[priority]
	if !ok {
		accent = priorityAccents["low"]
	}

	title := childTextByClass(n, "callout-title")
	if icon := childTextByClass(n, "callout-icon"); icon != "" {
		title = strings.TrimSpace(icon + " " + title)
	}

	var out []*docmodel.Paragraph
	if title != "" {
		out = append(out, shadedParagraph(title, calloutFill, accent, docmodel.StyleFlags{Bold: true}))
	}
	for _, class := range []string{"callout-reason", "callout-context", "callout-action"} {
		if text := childTextByClass(n, class); text != "" {
			out = append(out, shadedParagraph(text, calloutFill, "404040", docmodel.StyleFlags{}))
		}
	}
	return out
}

func shadedParagraph(text, fill, color string, flags docmodel.StyleFlags) *docmodel.Paragraph {
	flags.Color = color
	return &docmodel.Paragraph{
		Runs:    []docmodel.TextRun{{Text: text, Flags: flags}},
		Style:   "Normal",
		Shading: fill,
		Spacing: docmodel.Spacing{After: 120},
		Indent:  docmodel.Indent{Left: 240, Right: 240},
	}
}

// screenplayRecipe is the fixed formatting of one screenplay element
// type, following standard screenplay layout conventions.
type screenplayRecipe struct {
	indent    int
	alignment docmodel.Alignment
	upper     bool
	bold      bool
	spacing   docmodel.Spacing
}

var screenplayRecipes = map[string]screenplayRecipe{
	"scene-heading": {upper: true, bold: true, spacing: docmodel.Spacing{Before: 240, After: 120}},
	"action":        {spacing: docmodel.Spacing{After: 120}},
	"character":     {indent: 2880, upper: true, spacing: docmodel.Spacing{Before: 120}},
	"parenthetical": {indent: 2160},
	"dialogue":      {indent: 1440, spacing: docmodel.Spacing{After: 120}},
	"transition":    {alignment: docmodel.AlignRight, upper: true, spacing: docmodel.Spacing{Before: 120, After: 120}},
	"spacer":        {},
}

// convertScreenplay maps one screenplay element to a monospace
// paragraph shaped by its type recipe. The type comes from a data
// attribute first, then from the class list. A spacer becomes a
// deliberate blank line.
func convertScreenplay(n *html.Node) *docmodel.Paragraph {
	kind := strings.ToLower(attrValue(n, "data-block-type"))
	if _, ok := screenplayRecipes[kind]; !ok {
		kind = ""
		for _, class := range classList(n) {
			if _, ok := screenplayRecipes[class]; ok {
				kind = class
				break
			}
		}
		if kind == "" {
			kind = "action"
		}
	}
	recipe := screenplayRecipes[kind]

	if kind == "spacer" {
		return &docmodel.Paragraph{Style: "No Spacing"}
	}

	text := strings.TrimSpace(docmodel.NormalizeSpace(docmodel.SanitizeText(textContent(n))))
	if text == "" {
		return nil
	}
	if recipe.upper {
		text = strings.ToUpper(text)
	}
	return &docmodel.Paragraph{
		Runs: []docmodel.TextRun{{Text: text, Flags: docmodel.StyleFlags{
			Font: monospaceFont,
			Bold: recipe.bold,
		}}},
		Style:     "No Spacing",
		Alignment: recipe.alignment,
		Indent:    docmodel.Indent{Left: recipe.indent},
		Spacing:   recipe.spacing,
	}
}

// convertColumns turns a side-by-side layout into one borderless table
// row. A single column degrades to sequential content; no columns means
// the container is treated as a transparent wrapper minus editor chrome.
func (c *Converter) convertColumns(ctx context.Context, n *html.Node, flags docmodel.StyleFlags, opts blockOpts) ([]docmodel.Block, error) {
	var columns []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && hasClass(child, "column-content") {
			columns = append(columns, child)
		}
	}

	switch len(columns) {
	case 0:
		var out []docmodel.Block
		acc := &runAccumulator{}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && hasClass(child, "column-drag-handle") {
				continue
			}
			if err := c.step(ctx, child, flags, opts, acc, &out); err != nil {
				return nil, err
			}
		}
		c.flushInto(acc, opts, &out)
		return out, nil

	case 1:
		return c.convertContainer(ctx, columns[0], DeriveStyle(columns[0], flags), c.defaultOpts())

	default:
		row := &docmodel.TableRow{Borderless: true}
		for _, col := range columns {
			blocks, err := c.convertContainer(ctx, col, DeriveStyle(col, flags), c.defaultOpts())
			if err != nil {
				return nil, err
			}
			cell := cellParagraphs(blocks)
			if len(cell) == 0 {
				cell = []*docmodel.Paragraph{{Style: "Normal"}}
			}
			row.Cells = append(row.Cells, cell)
		}
		return []docmodel.Block{row}, nil
	}
}

// cellParagraphs keeps the paragraph content of a converted column.
// Table cells carry paragraphs only, so non-paragraph blocks inside a
// column are reduced to their text.
func cellParagraphs(blocks []docmodel.Block) []*docmodel.Paragraph {
	var out []*docmodel.Paragraph
	for _, b := range blocks {
		switch b := b.(type) {
		case *docmodel.Paragraph:
			out = append(out, b)
		case *docmodel.TableRow:
			for _, cell := range b.Cells {
				out = append(out, cell...)
			}
		case *docmodel.Callout:
			out = append(out, b.Content...)
		}
	}
	return out
}

// childTextByClass returns the flattened, normalized text of the first
// descendant carrying the class, or "".
func childTextByClass(n *html.Node, class string) string {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	if found == nil {
		return ""
	}
	return strings.TrimSpace(docmodel.NormalizeSpace(docmodel.SanitizeText(textContent(found))))
}
