package htmlconv

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"qpc/docmodel"
)

// List markup has no native equivalent in the flat block model, so items
// become marker-prefixed paragraphs. Nested lists restart numbering and
// follow their parent item in document order.

const bulletMarker = "• "

func (c *Converter) convertList(ctx context.Context, n *html.Node, flags docmodel.StyleFlags, ordered bool) ([]docmodel.Block, error) {
	var out []docmodel.Block
	ordinal := 0
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || strings.ToLower(li.Data) != "li" {
			continue
		}
		ordinal++
		marker := bulletMarker
		if ordered {
			marker = fmt.Sprintf("%d. ", ordinal)
		}

		itemOpts := blockOpts{
			style:   c.listItemStyle(li, ordered),
			spacing: docmodel.Spacing{After: 120},
			indent:  docmodel.Indent{Left: 720},
		}
		sub, err := c.convertContainer(ctx, li, DeriveStyle(li, flags), itemOpts)
		if err != nil {
			return nil, err
		}

		if p := firstParagraph(sub); p != nil {
			p.Runs = append([]docmodel.TextRun{{Text: marker}}, p.Runs...)
		} else {
			// item without inline content of its own, fall back to its
			// flattened text so the marker is never orphaned
			text := strings.TrimSpace(docmodel.NormalizeSpace(docmodel.SanitizeText(textContent(li))))
			if text == "" && len(sub) == 0 {
				continue
			}
			if text != "" {
				sub = append([]docmodel.Block{&docmodel.Paragraph{
					Runs:    []docmodel.TextRun{{Text: marker + text}},
					Style:   itemOpts.style,
					Spacing: itemOpts.spacing,
					Indent:  itemOpts.indent,
				}}, sub...)
			}
		}
		out = append(out, sub...)
	}
	return out, nil
}

func (c *Converter) listItemStyle(li *html.Node, ordered bool) string {
	for _, class := range classList(li) {
		if s := c.styles.ToWordStyle("li", class); s != "" {
			return s
		}
	}
	if s := c.styles.ToWordStyle("li", ""); s != "" {
		return s
	}
	if ordered {
		return "List Number"
	}
	return "List Bullet"
}

func firstParagraph(blocks []docmodel.Block) *docmodel.Paragraph {
	for _, b := range blocks {
		if p, ok := b.(*docmodel.Paragraph); ok {
			return p
		}
	}
	return nil
}

// convertTable flattens an ordinary data table into one paragraph per
// row with cell texts pipe-joined. Only explicit column layouts survive
// as real table rows, everything else degrades to readable text.
func (c *Converter) convertTable(n *html.Node) []docmodel.Block {
	var out []docmodel.Block
	for _, tr := range collectRows(n) {
		var cells []string
		for td := tr.FirstChild; td != nil; td = td.NextSibling {
			if td.Type != html.ElementNode {
				continue
			}
			switch strings.ToLower(td.Data) {
			case "td", "th":
				cells = append(cells, strings.TrimSpace(docmodel.NormalizeSpace(docmodel.SanitizeText(textContent(td)))))
			}
		}
		text := strings.TrimSpace(strings.Join(cells, " | "))
		if text == "" {
			continue
		}
		out = append(out, &docmodel.Paragraph{
			Runs:    []docmodel.TextRun{{Text: text}},
			Style:   "Normal",
			Spacing: docmodel.Spacing{After: 200},
		})
	}
	return out
}

// collectRows gathers tr elements in document order, looking through
// thead/tbody/tfoot wrappers.
func collectRows(n *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch strings.ToLower(c.Data) {
			case "tr":
				rows = append(rows, c)
			case "thead", "tbody", "tfoot":
				walk(c)
			}
		}
	}
	walk(n)
	return rows
}
