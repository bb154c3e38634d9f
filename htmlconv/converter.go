// Package htmlconv converts an arbitrary, loosely structured HTML tree
// (a contentEditable surface or the importer both produce one) into the
// ordered block sequence of the document model. It is a recursive
// tree-to-sequence transducer: inline content accumulates into a pending
// run buffer and every block boundary flushes the buffer into a concrete
// paragraph, so no inline content is ever lost at a transition.
package htmlconv

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"qpc/css"
	"qpc/docmodel"
	"qpc/stylemap"
)

// ImageResolver loads and prepares one img element. A nil image with nil
// error means the element should be silently dropped.
type ImageResolver interface {
	Resolve(ctx context.Context, n *html.Node) (*docmodel.Image, error)
}

// Converter walks HTML node trees and emits document blocks.
type Converter struct {
	log    *zap.Logger
	styles *stylemap.Map
	images ImageResolver
}

// New creates a converter. A nil resolver drops all images.
func New(styles *stylemap.Map, images ImageResolver, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	if styles == nil {
		styles = stylemap.New()
	}
	return &Converter{
		log:    log.Named("htmlconv"),
		styles: styles,
		images: images,
	}
}

// Convert parses the markup and produces the block sequence. Sibling
// conversion is strictly sequential to preserve document order; the
// context is consulted only around suspension points (image resolution).
// When the whole tree yields nothing the raw text content is used as
// double-newline-delimited plain text paragraphs.
func (c *Converter) Convert(ctx context.Context, src string) ([]docmodel.Block, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	body := findBody(doc)
	if body == nil {
		body = doc
	}

	blocks, err := c.convertContainer(ctx, body, docmodel.StyleFlags{}, c.defaultOpts())
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		c.log.Debug("Conversion yielded no blocks, falling back to plain text")
		blocks = PlainTextBlocks(textContent(body))
	}
	return blocks, nil
}

// blockOpts carries the paragraph level options of the enclosing block
// while its inline content accumulates.
type blockOpts struct {
	style        string
	headingLevel int
	alignment    docmodel.Alignment
	spacing      docmodel.Spacing
	indent       docmodel.Indent
	shading      string
	keepNext     bool
}

func (c *Converter) defaultOpts() blockOpts {
	return blockOpts{style: "Normal", spacing: docmodel.Spacing{After: 200}}
}

// runAccumulator is the pending-run buffer of one block-building call.
type runAccumulator struct {
	runs         []docmodel.TextRun
	pendingSpace bool
}

// addText appends normalized text under the given flags. Pure whitespace
// never creates a run - it only separates adjacent ones.
func (a *runAccumulator) addText(text string, flags docmodel.StyleFlags) {
	norm := docmodel.NormalizeSpace(text)
	if norm == "" {
		return
	}
	if docmodel.IsBlankText(norm) {
		if len(a.runs) > 0 {
			a.pendingSpace = true
		}
		return
	}
	if a.pendingSpace && !strings.HasPrefix(norm, " ") {
		norm = " " + norm
	}
	a.pendingSpace = false

	// merge with the previous run when formatting matches, keeps run
	// lists short without changing rendered output
	if len(a.runs) > 0 {
		last := &a.runs[len(a.runs)-1]
		if !last.LineBreak && last.Flags == flags {
			last.Text += norm
			return
		}
	}
	a.runs = append(a.runs, docmodel.TextRun{Text: norm, Flags: flags})
}

func (a *runAccumulator) addBreak(flags docmodel.StyleFlags) {
	a.pendingSpace = false
	a.runs = append(a.runs, docmodel.TextRun{LineBreak: true, Flags: flags})
}

// flush commits the buffer into a paragraph and clears it. Returns nil
// when there is nothing visible to commit.
func (a *runAccumulator) flush(opts blockOpts) *docmodel.Paragraph {
	runs := trimRunEdges(a.runs)
	a.runs = nil
	a.pendingSpace = false
	if len(runs) == 0 {
		return nil
	}
	return &docmodel.Paragraph{
		Runs:         runs,
		Style:        opts.style,
		HeadingLevel: opts.headingLevel,
		Alignment:    opts.alignment,
		Spacing:      opts.spacing,
		Indent:       opts.indent,
		Shading:      opts.shading,
		KeepNext:     opts.keepNext,
	}
}

// trimRunEdges removes paragraph-edge whitespace the way HTML rendering
// does, dropping runs that become empty.
func trimRunEdges(runs []docmodel.TextRun) []docmodel.TextRun {
	for len(runs) > 0 && !runs[0].LineBreak {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " ")
		if runs[0].Text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 && !runs[len(runs)-1].LineBreak {
		last := len(runs) - 1
		runs[last].Text = strings.TrimRight(runs[last].Text, " ")
		if runs[last].Text != "" {
			break
		}
		runs = runs[:last]
	}
	return runs
}

// convertContainer runs the accumulate/flush state machine over the
// children of one container element.
func (c *Converter) convertContainer(ctx context.Context, n *html.Node, flags docmodel.StyleFlags, opts blockOpts) ([]docmodel.Block, error) {
	acc := &runAccumulator{}
	var out []docmodel.Block
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := c.step(ctx, child, flags, opts, acc, &out); err != nil {
			return nil, err
		}
	}
	// end of siblings is a block boundary
	c.flushInto(acc, opts, &out)
	return out, nil
}

func (c *Converter) flushInto(acc *runAccumulator, opts blockOpts, out *[]docmodel.Block) {
	if p := acc.flush(opts); p != nil {
		*out = append(*out, p)
	}
}

// nonContentTags produce nothing at all.
var nonContentTags = map[string]bool{
	"style": true, "script": true, "link": true, "meta": true,
	"head": true, "title": true, "noscript": true, "base": true,
	"template": true, "iframe": true, "object": true, "embed": true,
	"button": true, "input": true, "select": true, "textarea": true,
}

// blockTags get their own accumulator scope and paragraph options.
var blockTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "div": true, "section": true, "article": true,
	"blockquote": true, "header": true, "footer": true, "figure": true,
	"main": true, "aside": true, "nav": true, "address": true, "pre": true,
	"figcaption": true, "summary": true, "details": true,
}

// inlineTags accumulate into the enclosing block's buffer.
var inlineTags = map[string]bool{
	"span": true, "strong": true, "b": true, "em": true, "i": true,
	"u": true, "a": true, "code": true, "mark": true, "small": true,
	"sup": true, "sub": true, "del": true, "ins": true, "s": true,
	"strike": true, "cite": true, "kbd": true, "samp": true, "tt": true,
	"var": true, "abbr": true, "q": true, "time": true, "label": true,
	"font": true, "big": true,
}

// step dispatches one child node. Priority order matters: non-content
// tags, recognized special classes, images, breaks, lists, tables, block
// tags, inline tags, transparent wrappers.
func (c *Converter) step(ctx context.Context, n *html.Node, flags docmodel.StyleFlags, opts blockOpts, acc *runAccumulator, out *[]docmodel.Block) error {
	switch n.Type {
	case html.TextNode:
		acc.addText(docmodel.SanitizeText(n.Data), flags)
		return nil
	case html.ElementNode:
		// handled below
	default:
		// comments, doctypes
		return nil
	}

	tag := strings.ToLower(n.Data)
	if nonContentTags[tag] {
		return nil
	}

	if handled, err := c.stepSpecial(ctx, n, flags, opts, acc, out); handled || err != nil {
		return err
	}

	switch {
	case tag == "img":
		c.flushInto(acc, opts, out)
		img, err := c.resolveImage(ctx, n)
		if err != nil {
			return err
		}
		if img != nil {
			*out = append(*out, img)
		}

	case tag == "br":
		acc.addBreak(flags)

	case tag == "ul" || tag == "ol":
		c.flushInto(acc, opts, out)
		items, err := c.convertList(ctx, n, flags, tag == "ol")
		if err != nil {
			return err
		}
		*out = append(*out, items...)

	case tag == "table":
		c.flushInto(acc, opts, out)
		*out = append(*out, c.convertTable(n)...)

	case blockTags[tag]:
		c.flushInto(acc, opts, out)
		sub, err := c.convertContainer(ctx, n, DeriveStyle(n, flags), c.blockOptsFor(n, tag))
		if err != nil {
			return err
		}
		if len(sub) == 0 {
			// a content-less block is dropped unless it is a deliberate
			// blank line after visible content
			if tag == "p" && lastBlockVisible(*out) {
				*out = append(*out, &docmodel.Paragraph{Style: "Normal", Spacing: opts.spacing})
			}
			return nil
		}
		*out = append(*out, sub...)

	case inlineTags[tag]:
		merged := DeriveStyle(n, flags)
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := c.step(ctx, child, merged, opts, acc, out); err != nil {
				return err
			}
		}

	default:
		// transparent wrapper - recurse with inherited style
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := c.step(ctx, child, flags, opts, acc, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Converter) resolveImage(ctx context.Context, n *html.Node) (*docmodel.Image, error) {
	if c.images == nil {
		return nil, nil
	}
	return c.images.Resolve(ctx, n)
}

// lastBlockVisible reports whether the last emitted block carries
// content, which makes a following empty paragraph a deliberate blank
// line rather than markup noise.
func lastBlockVisible(out []docmodel.Block) bool {
	if len(out) == 0 {
		return false
	}
	switch b := out[len(out)-1].(type) {
	case *docmodel.Paragraph:
		return !b.IsEmpty()
	case *docmodel.Image, *docmodel.TableRow, *docmodel.Callout:
		return true
	}
	return false
}

// blockOptsFor resolves paragraph options for a generic block tag: word
// style from the style map, the fixed per-tag spacing table, alignment
// from attributes and the honored CSS subset.
func (c *Converter) blockOptsFor(n *html.Node, tag string) blockOpts {
	opts := blockOpts{}

	var style string
	for _, class := range classList(n) {
		if s := c.styles.ToWordStyle(tag, class); s != "" {
			style = s
			break
		}
	}
	if style == "" {
		if s := c.styles.ToWordStyle(tag, ""); s != "" {
			style = s
		} else {
			style = c.styles.FallbackStyle(tag)
		}
	}
	opts.style = style
	opts.headingLevel = stylemap.HeadingLevel(tag)
	opts.keepNext = opts.headingLevel > 0

	switch tag {
	case "h1":
		opts.spacing = docmodel.Spacing{Before: 400, After: 240}
	case "h2":
		opts.spacing = docmodel.Spacing{Before: 320, After: 160}
	case "h3":
		opts.spacing = docmodel.Spacing{Before: 240, After: 120}
	case "blockquote":
		opts.spacing = docmodel.Spacing{Before: 160, After: 160}
		opts.indent = docmodel.Indent{Left: 720}
	default:
		opts.spacing = docmodel.Spacing{After: 200}
	}

	opts.alignment = blockAlignment(n)
	return opts
}

// blockAlignment infers alignment: explicit align attribute first, then
// a text-align declaration, otherwise destination default.
func blockAlignment(n *html.Node) docmodel.Alignment {
	if v := strings.ToLower(attrValue(n, "align")); v != "" {
		if a := alignmentFromKeyword(v); a != docmodel.AlignDefault {
			return a
		}
	}
	if v, ok := css.ParseDeclarations(attrValue(n, "style")).Get("text-align"); ok {
		return alignmentFromKeyword(strings.ToLower(v.Raw))
	}
	return docmodel.AlignDefault
}

func alignmentFromKeyword(v string) docmodel.Alignment {
	switch {
	case strings.Contains(v, "center"):
		return docmodel.AlignCenter
	case strings.Contains(v, "right"):
		return docmodel.AlignRight
	case strings.Contains(v, "justify"):
		return docmodel.AlignJustify
	case strings.Contains(v, "left"):
		return docmodel.AlignLeft
	}
	return docmodel.AlignDefault
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}

// textContent flattens all text below a node, skipping non-content tags.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode {
			if nonContentTags[strings.ToLower(n.Data)] {
				return
			}
			// block boundaries separate words in flattened text
			if blockTags[strings.ToLower(n.Data)] || n.Data == "br" || n.Data == "li" || n.Data == "tr" {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
