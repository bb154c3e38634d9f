package docmodel

// Alignment of a block relative to page margins.
// Zero value inherits destination default.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return ""
	}
}

// TextRun is a contiguous span of text sharing one resolved set of inline
// style flags. When LineBreak is set the run carries no text and stands
// for an explicit in-paragraph line break.
type TextRun struct {
	Text      string
	Flags     StyleFlags
	LineBreak bool
}

// Spacing holds paragraph spacing in twentieths of a point. Line of zero
// means single spacing.
type Spacing struct {
	Before int
	After  int
	Line   int
}

// Indent holds paragraph indentation in twips.
type Indent struct {
	Left      int
	Right     int
	FirstLine int
}

// Block is one structural unit of the destination document.
type Block interface {
	isBlock()
}

// Paragraph is the workhorse block: a run list plus paragraph level
// options. A paragraph with no runs is an explicit blank line - the
// converter only emits those when the source demanded one.
type Paragraph struct {
	Runs []TextRun

	// Style is the word-processor paragraph style name ("Normal",
	// "Heading 1", "Title", ...). Empty means Normal.
	Style string

	// HeadingLevel is 1-6 for headings, 0 otherwise. Kept separate from
	// Style so TOC scanning does not need to parse style names.
	HeadingLevel int

	Alignment Alignment
	Spacing   Spacing
	Indent    Indent

	// Shading is a 6-digit hex fill color for callout blocks, empty for
	// regular paragraphs.
	Shading string

	// KeepNext asks the consumer to keep this paragraph on one page with
	// the following one (used for headings).
	KeepNext bool
}

func (*Paragraph) isBlock() {}

// IsEmpty reports whether the paragraph carries no visible content.
func (p *Paragraph) IsEmpty() bool {
	for _, r := range p.Runs {
		if r.LineBreak || len(r.Text) > 0 {
			return false
		}
	}
	return true
}

// Text returns concatenated run text without formatting.
func (p *Paragraph) Text() string {
	var n int
	for _, r := range p.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range p.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// TableRow is one row of a grid. Ordinary HTML tables are collapsed to
// pipe-joined paragraphs before reaching the model; rows are emitted only
// for the side-by-side column layout, hence Borderless is the norm.
type TableRow struct {
	// Cells holds per-cell block content. Only paragraphs survive inside
	// cells, nested grids are flattened during conversion.
	Cells      [][]*Paragraph
	Borderless bool
}

func (*TableRow) isBlock() {}

// Image is an embedded raster image with resolved display dimensions in
// points.
type Image struct {
	Data      []byte
	Format    string // "png", "jpeg", "gif" or "bmp"
	Width     int
	Height    int
	Alignment Alignment
}

func (*Image) isBlock() {}

// PageBreak forces the consumer to start a new page.
type PageBreak struct{}

func (*PageBreak) isBlock() {}

// TOCMarker marks the place where the assembler inserts the generated
// table of contents. At most one is honored per document.
type TOCMarker struct{}

func (*TOCMarker) isBlock() {}

// CalloutKind identifies which editor widget a Callout came from.
type CalloutKind int

const (
	CalloutSpacing CalloutKind = iota
	CalloutDualCoding
	CalloutScreenplay
)

func (k CalloutKind) String() string {
	switch k {
	case CalloutSpacing:
		return "spacing"
	case CalloutDualCoding:
		return "dual-coding"
	case CalloutScreenplay:
		return "screenplay"
	default:
		return "unknown"
	}
}

// Callout is a visually distinct widget block beyond plain body text.
// Content holds the paragraphs the widget renders as; Kind survives so
// consumers can still tell widget variants apart.
type Callout struct {
	Kind    CalloutKind
	Content []*Paragraph
}

func (*Callout) isBlock() {}
