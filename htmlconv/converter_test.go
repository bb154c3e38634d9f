package htmlconv

import (
	"context"
	"testing"

	"qpc/docmodel"
	"qpc/stylemap"
)

func convertAll(t *testing.T, src string) []docmodel.Block {
	t.Helper()
	c := New(stylemap.New(), nil, nil)
	blocks, err := c.Convert(context.Background(), src)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	return blocks
}

func paragraphAt(t *testing.T, blocks []docmodel.Block, i int) *docmodel.Paragraph {
	t.Helper()
	if i >= len(blocks) {
		t.Fatalf("want block %d, got %d blocks", i, len(blocks))
	}
	p, ok := blocks[i].(*docmodel.Paragraph)
	if !ok {
		t.Fatalf("block %d: want paragraph, got %T", i, blocks[i])
	}
	return p
}

func TestConvertHeadingAndFormattedParagraph(t *testing.T) {
	blocks := convertAll(t, `<h1>Title</h1><p>Hello <strong>world</strong>.</p>`)
	if len(blocks) != 2 {
		t.Fatalf("want 2 blocks, got %d", len(blocks))
	}

	h := paragraphAt(t, blocks, 0)
	if h.Style != "Heading 1" || h.HeadingLevel != 1 {
		t.Errorf("heading: style %q level %d", h.Style, h.HeadingLevel)
	}
	if len(h.Runs) != 1 || h.Runs[0].Text != "Title" {
		t.Errorf("heading runs: %+v", h.Runs)
	}
	if h.Spacing.Before != 400 || h.Spacing.After != 240 {
		t.Errorf("heading spacing: %+v", h.Spacing)
	}
	if !h.KeepNext {
		t.Error("heading should keep with next")
	}

	p := paragraphAt(t, blocks, 1)
	want := []docmodel.TextRun{
		{Text: "Hello "},
		{Text: "world", Flags: docmodel.StyleFlags{Bold: true}},
		{Text: "."},
	}
	if len(p.Runs) != len(want) {
		t.Fatalf("want %d runs, got %+v", len(want), p.Runs)
	}
	for i := range want {
		if p.Runs[i] != want[i] {
			t.Errorf("run %d: got %+v, want %+v", i, p.Runs[i], want[i])
		}
	}
}

func TestConvertOrderedList(t *testing.T) {
	blocks := convertAll(t, `<ol><li>First</li><li>Second</li></ol>`)
	if len(blocks) != 2 {
		t.Fatalf("want 2 blocks, got %d", len(blocks))
	}
	for i, want := range []string{"1. First", "2. Second"} {
		if got := paragraphAt(t, blocks, i).Text(); got != want {
			t.Errorf("item %d: got %q, want %q", i, got, want)
		}
	}
}

func TestConvertBulletListAndNested(t *testing.T) {
	blocks := convertAll(t, `<ul><li>One</li><li>Two<ol><li>Sub</li></ol></li></ul>`)
	if len(blocks) != 3 {
		t.Fatalf("want 3 blocks, got %d", len(blocks))
	}
	if got := paragraphAt(t, blocks, 0).Text(); got != "• One" {
		t.Errorf("first item: %q", got)
	}
	if got := paragraphAt(t, blocks, 1).Text(); got != "• Two" {
		t.Errorf("second item: %q", got)
	}
	// nested ordered list restarts numbering after its parent item
	if got := paragraphAt(t, blocks, 2).Text(); got != "1. Sub" {
		t.Errorf("nested item: %q", got)
	}
}

func TestConvertListItemFormatting(t *testing.T) {
	blocks := convertAll(t, `<ul><li>plain <em>styled</em></li></ul>`)
	p := paragraphAt(t, blocks, 0)
	if len(p.Runs) != 3 {
		t.Fatalf("runs: %+v", p.Runs)
	}
	if p.Runs[0].Text != "• " {
		t.Errorf("marker run: %q", p.Runs[0].Text)
	}
	if !p.Runs[2].Flags.Italics {
		t.Errorf("styled run lost italics: %+v", p.Runs[2])
	}
}

func TestConvertTableRowsPipeJoined(t *testing.T) {
	blocks := convertAll(t, `<table><tbody><tr><td>a</td><th>b</th></tr><tr><td>c</td></tr></tbody></table>`)
	if len(blocks) != 2 {
		t.Fatalf("want 2 blocks, got %d", len(blocks))
	}
	if got := paragraphAt(t, blocks, 0).Text(); got != "a | b" {
		t.Errorf("row 0: %q", got)
	}
	if got := paragraphAt(t, blocks, 1).Text(); got != "c" {
		t.Errorf("row 1: %q", got)
	}
}

func TestConvertColumns(t *testing.T) {
	src := `<div class="column-container">` +
		`<div class="column-drag-handle"></div>` +
		`<div class="column-content"><p>Left</p></div>` +
		`<div class="column-content"><p>Right</p></div>` +
		`</div>`
	blocks := convertAll(t, src)
	if len(blocks) != 1 {
		t.Fatalf("want 1 block, got %d", len(blocks))
	}
	row, ok := blocks[0].(*docmodel.TableRow)
	if !ok {
		t.Fatalf("want table row, got %T", blocks[0])
	}
	if !row.Borderless {
		t.Error("column row must be borderless")
	}
	if len(row.Cells) != 2 {
		t.Fatalf("want 2 cells, got %d", len(row.Cells))
	}
	for i, want := range []string{"Left", "Right"} {
		if len(row.Cells[i]) != 1 || row.Cells[i][0].Text() != want {
			t.Errorf("cell %d: %+v", i, row.Cells[i])
		}
	}
}

func TestConvertSingleColumnCollapses(t *testing.T) {
	src := `<div class="column-container"><div class="column-content"><p>Only</p></div></div>`
	blocks := convertAll(t, src)
	if len(blocks) != 1 {
		t.Fatalf("want 1 block, got %d", len(blocks))
	}
	if got := paragraphAt(t, blocks, 0).Text(); got != "Only" {
		t.Errorf("got %q", got)
	}
}

func TestConvertBlankParagraphPreserved(t *testing.T) {
	blocks := convertAll(t, `<p>First</p><p></p><p>Second</p>`)
	if len(blocks) != 3 {
		t.Fatalf("want 3 blocks, got %d", len(blocks))
	}
	if !paragraphAt(t, blocks, 1).IsEmpty() {
		t.Error("middle paragraph should be empty")
	}

	// a leading empty paragraph is markup noise, not a blank line
	blocks = convertAll(t, `<p></p><p>Text</p>`)
	if len(blocks) != 1 {
		t.Fatalf("leading blank: want 1 block, got %d", len(blocks))
	}
}

func TestConvertTopLevelInline(t *testing.T) {
	blocks := convertAll(t, `Hello <strong>world</strong>`)
	if len(blocks) != 1 {
		t.Fatalf("want 1 block, got %d", len(blocks))
	}
	p := paragraphAt(t, blocks, 0)
	if p.Text() != "Hello world" {
		t.Errorf("text: %q", p.Text())
	}
	if len(p.Runs) != 2 || !p.Runs[1].Flags.Bold {
		t.Errorf("runs: %+v", p.Runs)
	}
}

func TestConvertLineBreak(t *testing.T) {
	blocks := convertAll(t, `<p>one<br>two</p>`)
	p := paragraphAt(t, blocks, 0)
	if len(p.Runs) != 3 {
		t.Fatalf("runs: %+v", p.Runs)
	}
	if !p.Runs[1].LineBreak {
		t.Errorf("middle run should be a line break: %+v", p.Runs[1])
	}
}

func TestConvertControlCharsStripped(t *testing.T) {
	blocks := convertAll(t, "<p>abcdef</p>")
	if got := paragraphAt(t, blocks, 0).Text(); got != "abcdef" {
		t.Errorf("got %q", got)
	}
}

func TestConvertBlockquote(t *testing.T) {
	blocks := convertAll(t, `<blockquote>Quoted</blockquote>`)
	p := paragraphAt(t, blocks, 0)
	if p.Style != "Block Quote" {
		t.Errorf("style: %q", p.Style)
	}
	if p.Indent.Left != 720 {
		t.Errorf("indent: %+v", p.Indent)
	}
	if p.Spacing.Before != 160 || p.Spacing.After != 160 {
		t.Errorf("spacing: %+v", p.Spacing)
	}
}

func TestConvertAlignment(t *testing.T) {
	blocks := convertAll(t, `<p align="center">A</p><p style="text-align: right">B</p><p>C</p>`)
	want := []docmodel.Alignment{docmodel.AlignCenter, docmodel.AlignRight, docmodel.AlignDefault}
	for i, a := range want {
		if got := paragraphAt(t, blocks, i).Alignment; got != a {
			t.Errorf("block %d: alignment %v, want %v", i, got, a)
		}
	}
}

func TestConvertPageBreakAndTOC(t *testing.T) {
	blocks := convertAll(t, `<p>a</p><div class="page-break"></div><div class="toc-placeholder"></div><p>b</p>`)
	if len(blocks) != 4 {
		t.Fatalf("want 4 blocks, got %d", len(blocks))
	}
	if _, ok := blocks[1].(*docmodel.PageBreak); !ok {
		t.Errorf("block 1: %T", blocks[1])
	}
	if _, ok := blocks[2].(*docmodel.TOCMarker); !ok {
		t.Errorf("block 2: %T", blocks[2])
	}
}

func TestConvertDocTitle(t *testing.T) {
	blocks := convertAll(t, `<h1 class="doc-title">My Book</h1><p class="doc-subtitle">A story</p>`)
	if got := paragraphAt(t, blocks, 0).Style; got != "Title" {
		t.Errorf("title style: %q", got)
	}
	if got := paragraphAt(t, blocks, 1).Style; got != "Subtitle" {
		t.Errorf("subtitle style: %q", got)
	}
}

func calloutAt(t *testing.T, blocks []docmodel.Block, i int, kind docmodel.CalloutKind) *docmodel.Callout {
	t.Helper()
	if i >= len(blocks) {
		t.Fatalf("want block %d, got %d blocks", i, len(blocks))
	}
	c, ok := blocks[i].(*docmodel.Callout)
	if !ok {
		t.Fatalf("block %d: want callout, got %T", i, blocks[i])
	}
	if c.Kind != kind {
		t.Fatalf("callout kind: %v, want %v", c.Kind, kind)
	}
	return c
}

func TestConvertSpacingIndicator(t *testing.T) {
	src := `<div class="spacing-indicator compact">` +
		`<span class="spacing-label">Pacing</span>` +
		`<span class="spacing-message">Too dense here</span></div>`
	blocks := convertAll(t, src)
	if len(blocks) != 1 {
		t.Fatalf("want 1 block, got %d", len(blocks))
	}
	callout := calloutAt(t, blocks, 0, docmodel.CalloutSpacing)
	if len(callout.Content) != 2 {
		t.Fatalf("want 2 paragraphs, got %d", len(callout.Content))
	}
	label := callout.Content[0]
	if label.Shading != "FFF4E5" {
		t.Errorf("label shading: %q", label.Shading)
	}
	if !label.Runs[0].Flags.Bold {
		t.Error("label should be bold")
	}
	msg := callout.Content[1]
	if msg.Text() != "Too dense here" {
		t.Errorf("message: %q", msg.Text())
	}
	if msg.Shading != label.Shading {
		t.Errorf("message shading %q differs from label %q", msg.Shading, label.Shading)
	}
}

func TestConvertDualCodingPriority(t *testing.T) {
	src := `<div class="dual-coding-callout">` +
		`<span class="callout-title">Show, don't tell</span>` +
		`<span class="callout-priority">high</span>` +
		`<span class="callout-reason">Flat description</span></div>`
	blocks := convertAll(t, src)
	if len(blocks) != 1 {
		t.Fatalf("want 1 block, got %d", len(blocks))
	}
	callout := calloutAt(t, blocks, 0, docmodel.CalloutDualCoding)
	if len(callout.Content) != 2 {
		t.Fatalf("want 2 paragraphs, got %d", len(callout.Content))
	}
	if got := callout.Content[0].Runs[0].Flags.Color; got != "C0392B" {
		t.Errorf("high priority accent: %q", got)
	}
}

func TestConvertScreenplay(t *testing.T) {
	cases := []struct {
		name      string
		src       string
		text      string
		indent    int
		alignment docmodel.Alignment
	}{
		{
			name:   "character uppercased and indented",
			src:    `<div class="screenplay-block" data-block-type="character">jane</div>`,
			text:   "JANE",
			indent: 2880,
		},
		{
			name:   "dialogue indented less than character",
			src:    `<div class="screenplay-block dialogue">Hello there.</div>`,
			text:   "Hello there.",
			indent: 1440,
		},
		{
			name:      "transition right aligned",
			src:       `<div class="screenplay-block" data-block-type="transition">cut to:</div>`,
			text:      "CUT TO:",
			alignment: docmodel.AlignRight,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blocks := convertAll(t, tc.src)
			callout := calloutAt(t, blocks, 0, docmodel.CalloutScreenplay)
			if len(callout.Content) != 1 {
				t.Fatalf("want 1 paragraph, got %d", len(callout.Content))
			}
			p := callout.Content[0]
			if p.Text() != tc.text {
				t.Errorf("text: %q, want %q", p.Text(), tc.text)
			}
			if p.Indent.Left != tc.indent {
				t.Errorf("indent: %d, want %d", p.Indent.Left, tc.indent)
			}
			if p.Alignment != tc.alignment {
				t.Errorf("alignment: %v, want %v", p.Alignment, tc.alignment)
			}
			if p.Runs[0].Flags.Font != monospaceFont {
				t.Errorf("font: %q", p.Runs[0].Flags.Font)
			}
		})
	}
}

func TestConvertNonContentSkipped(t *testing.T) {
	blocks := convertAll(t, `<style>p{color:red}</style><script>alert(1)</script><p>Real</p>`)
	if len(blocks) != 1 {
		t.Fatalf("want 1 block, got %d", len(blocks))
	}
	if got := paragraphAt(t, blocks, 0).Text(); got != "Real" {
		t.Errorf("got %q", got)
	}
}

func TestPlainTextBlocks(t *testing.T) {
	blocks := PlainTextBlocks("First para\ncontinues\n\nSecond para\n\n\n")
	if len(blocks) != 2 {
		t.Fatalf("want 2 blocks, got %d", len(blocks))
	}
	if got := blocks[0].(*docmodel.Paragraph).Text(); got != "First para continues" {
		t.Errorf("first: %q", got)
	}
	if got := blocks[1].(*docmodel.Paragraph).Text(); got != "Second para" {
		t.Errorf("second: %q", got)
	}
}

func TestConvertWhitespaceBetweenInline(t *testing.T) {
	blocks := convertAll(t, `<p><strong>a</strong> <em>b</em></p>`)
	p := paragraphAt(t, blocks, 0)
	if got := p.Text(); got != "a b" {
		t.Errorf("got %q", got)
	}
}
