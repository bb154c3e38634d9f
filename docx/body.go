package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"qpc/config"
	"qpc/docmodel"
)

// buildDocument renders the block sequence into word/document.xml,
// registering embedded images in the media index as it goes.
func (a *Assembler) buildDocument(blocks []docmodel.Block, title string, cfg *config.DocumentConfig, media *mediaIndex) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	root.CreateAttr("xmlns:wp", nsWP)
	root.CreateAttr("xmlns:a", nsDML)
	root.CreateAttr("xmlns:pic", nsPic)

	body := root.CreateElement("w:body")

	entries := ComputeTOC(blocks, cfg.TOC.CharsPerPage, cfg.TOC.MaxLevel)
	tocPending := cfg.TOC.Enable
	if tocPending && !hasTOCMarker(blocks) {
		a.appendTOC(body, entries, &cfg.TOC, contentWidth(&cfg.Page))
		tocPending = false
	}

	for _, b := range blocks {
		switch b := b.(type) {
		case *docmodel.Paragraph:
			a.appendParagraph(body, b)
		case *docmodel.TableRow:
			a.appendTableRow(body, b, contentWidth(&cfg.Page))
		case *docmodel.Image:
			appendImage(body, b, media)
		case *docmodel.Callout:
			for _, p := range b.Content {
				a.appendParagraph(body, p)
			}
		case *docmodel.PageBreak:
			appendPageBreak(body)
		case *docmodel.TOCMarker:
			if tocPending {
				a.appendTOC(body, entries, &cfg.TOC, contentWidth(&cfg.Page))
				tocPending = false
			}
		default:
			a.log.Warn("Skipping unknown block type", zap.Any("block", b))
		}
	}

	appendSectPr(body, &cfg.Page)
	return doc, nil
}

func hasTOCMarker(blocks []docmodel.Block) bool {
	for _, b := range blocks {
		if _, ok := b.(*docmodel.TOCMarker); ok {
			return true
		}
	}
	return false
}

// contentWidth is the usable width between margins in twips.
func contentWidth(page *config.PageConfig) int {
	w, _ := page.Size.Dimensions()
	cw := w - page.MarginLeft - page.MarginRight
	if cw < 1440 {
		cw = 1440
	}
	return cw
}

// styleID converts a style name into the id form used by pStyle/rStyle
// references ("Heading 1" -> "Heading1").
func styleID(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

func (a *Assembler) appendParagraph(parent *etree.Element, p *docmodel.Paragraph) {
	wp := parent.CreateElement("w:p")
	appendPPr(wp, p)
	for _, r := range p.Runs {
		appendRun(wp, r)
	}
}

// appendPPr emits paragraph properties. Child order follows the OOXML
// schema, Word rejects parts with shuffled properties.
func appendPPr(wp *etree.Element, p *docmodel.Paragraph) {
	hasPPr := p.Style != "" || p.KeepNext || p.Shading != "" ||
		p.Spacing != (docmodel.Spacing{}) || p.Indent != (docmodel.Indent{}) ||
		p.Alignment != docmodel.AlignDefault
	if !hasPPr {
		return
	}

	pPr := wp.CreateElement("w:pPr")
	if p.Style != "" {
		st := pPr.CreateElement("w:pStyle")
		st.CreateAttr("w:val", styleID(p.Style))
	}
	if p.KeepNext {
		pPr.CreateElement("w:keepNext")
	}
	if p.Shading != "" {
		shd := pPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", p.Shading)
	}
	if p.Spacing != (docmodel.Spacing{}) {
		sp := pPr.CreateElement("w:spacing")
		if p.Spacing.Before > 0 {
			sp.CreateAttr("w:before", strconv.Itoa(p.Spacing.Before))
		}
		sp.CreateAttr("w:after", strconv.Itoa(p.Spacing.After))
		if p.Spacing.Line > 0 {
			sp.CreateAttr("w:line", strconv.Itoa(p.Spacing.Line))
			sp.CreateAttr("w:lineRule", "auto")
		}
	}
	if p.Indent != (docmodel.Indent{}) {
		ind := pPr.CreateElement("w:ind")
		if p.Indent.Left > 0 {
			ind.CreateAttr("w:left", strconv.Itoa(p.Indent.Left))
		}
		if p.Indent.Right > 0 {
			ind.CreateAttr("w:right", strconv.Itoa(p.Indent.Right))
		}
		if p.Indent.FirstLine > 0 {
			ind.CreateAttr("w:firstLine", strconv.Itoa(p.Indent.FirstLine))
		}
	}
	if p.Alignment != docmodel.AlignDefault {
		jc := pPr.CreateElement("w:jc")
		jc.CreateAttr("w:val", jcValue(p.Alignment))
	}
}

func jcValue(a docmodel.Alignment) string {
	switch a {
	case docmodel.AlignCenter:
		return "center"
	case docmodel.AlignRight:
		return "right"
	case docmodel.AlignJustify:
		return "both"
	default:
		return "left"
	}
}

func appendRun(wp *etree.Element, r docmodel.TextRun) {
	wr := wp.CreateElement("w:r")
	appendRPr(wr, r.Flags)
	if r.LineBreak {
		wr.CreateElement("w:br")
		return
	}
	wt := wr.CreateElement("w:t")
	wt.CreateAttr("xml:space", "preserve")
	wt.SetText(r.Text)
}

func appendRPr(wr *etree.Element, f docmodel.StyleFlags) {
	if f.IsZero() {
		return
	}
	rPr := wr.CreateElement("w:rPr")
	if f.Font != "" {
		fonts := rPr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", f.Font)
		fonts.CreateAttr("w:hAnsi", f.Font)
	}
	if f.Bold {
		rPr.CreateElement("w:b")
	}
	if f.Italics {
		rPr.CreateElement("w:i")
	}
	if f.Strike {
		rPr.CreateElement("w:strike")
	}
	if f.Color != "" {
		color := rPr.CreateElement("w:color")
		color.CreateAttr("w:val", f.Color)
	}
	if f.Underline {
		u := rPr.CreateElement("w:u")
		u.CreateAttr("w:val", "single")
	}
	if f.SuperScript {
		va := rPr.CreateElement("w:vertAlign")
		va.CreateAttr("w:val", "superscript")
	}
	if f.SubScript {
		va := rPr.CreateElement("w:vertAlign")
		va.CreateAttr("w:val", "subscript")
	}
}

func appendPageBreak(parent *etree.Element) {
	wp := parent.CreateElement("w:p")
	wr := wp.CreateElement("w:r")
	br := wr.CreateElement("w:br")
	br.CreateAttr("w:type", "page")
}

func appendImage(parent *etree.Element, img *docmodel.Image, media *mediaIndex) {
	relID := media.add(img.Format, img.Data)
	n := len(media.files)
	cx := int64(img.Width) * emuPerPoint
	cy := int64(img.Height) * emuPerPoint

	wp := parent.CreateElement("w:p")
	if img.Alignment != docmodel.AlignDefault {
		pPr := wp.CreateElement("w:pPr")
		jc := pPr.CreateElement("w:jc")
		jc.CreateAttr("w:val", jcValue(img.Alignment))
	}

	wr := wp.CreateElement("w:r")
	drawing := wr.CreateElement("w:drawing")

	inline := drawing.CreateElement("wp:inline")
	inline.CreateAttr("distT", "0")
	inline.CreateAttr("distB", "0")
	inline.CreateAttr("distL", "0")
	inline.CreateAttr("distR", "0")

	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", strconv.FormatInt(cx, 10))
	extent.CreateAttr("cy", strconv.FormatInt(cy, 10))

	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(n))
	docPr.CreateAttr("name", fmt.Sprintf("Picture %d", n))

	graphic := inline.CreateElement("a:graphic")
	graphicData := graphic.CreateElement("a:graphicData")
	graphicData.CreateAttr("uri", nsPic)

	pic := graphicData.CreateElement("pic:pic")

	nvPicPr := pic.CreateElement("pic:nvPicPr")
	cNvPr := nvPicPr.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(n))
	cNvPr.CreateAttr("name", fmt.Sprintf("Picture %d", n))
	nvPicPr.CreateElement("pic:cNvPicPr")

	blipFill := pic.CreateElement("pic:blipFill")
	blip := blipFill.CreateElement("a:blip")
	blip.CreateAttr("r:embed", relID)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.FormatInt(cx, 10))
	ext.CreateAttr("cy", strconv.FormatInt(cy, 10))
	prstGeom := spPr.CreateElement("a:prstGeom")
	prstGeom.CreateAttr("prst", "rect")
	prstGeom.CreateElement("a:avLst")
}

// appendTableRow emits one table per row. Rows come only from the column
// layout feature, so cells are equally sized and usually borderless.
func (a *Assembler) appendTableRow(parent *etree.Element, row *docmodel.TableRow, width int) {
	if len(row.Cells) == 0 {
		return
	}

	tbl := parent.CreateElement("w:tbl")

	tblPr := tbl.CreateElement("w:tblPr")
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", strconv.Itoa(width))
	tblW.CreateAttr("w:type", "dxa")
	if row.Borderless {
		borders := tblPr.CreateElement("w:tblBorders")
		for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			b := borders.CreateElement("w:" + side)
			b.CreateAttr("w:val", "none")
		}
	}
	layout := tblPr.CreateElement("w:tblLayout")
	layout.CreateAttr("w:type", "fixed")

	cellWidth := width / len(row.Cells)
	grid := tbl.CreateElement("w:tblGrid")
	for range row.Cells {
		col := grid.CreateElement("w:gridCol")
		col.CreateAttr("w:w", strconv.Itoa(cellWidth))
	}

	tr := tbl.CreateElement("w:tr")
	for _, cell := range row.Cells {
		tc := tr.CreateElement("w:tc")
		tcPr := tc.CreateElement("w:tcPr")
		tcW := tcPr.CreateElement("w:tcW")
		tcW.CreateAttr("w:w", strconv.Itoa(cellWidth))
		tcW.CreateAttr("w:type", "dxa")
		if len(cell) == 0 {
			tc.CreateElement("w:p")
			continue
		}
		for _, p := range cell {
			a.appendParagraph(tc, p)
		}
	}

	// a paragraph must follow a table or Word refuses the document
	parent.CreateElement("w:p")
}

// appendTOC renders the estimated table of contents: a heading followed
// by one dotted-leader line per entry. Page numbers are estimates, see
// ComputeTOC.
func (a *Assembler) appendTOC(body *etree.Element, entries []TocEntry, cfg *config.TOCConfig, width int) {
	title := cfg.Title
	if title == "" {
		title = "Contents"
	}
	a.appendParagraph(body, &docmodel.Paragraph{
		Runs:    []docmodel.TextRun{{Text: title}},
		Style:   "Heading 1",
		Spacing: docmodel.Spacing{Before: 400, After: 240},
	})

	for _, e := range entries {
		wp := body.CreateElement("w:p")
		pPr := wp.CreateElement("w:pPr")
		sp := pPr.CreateElement("w:spacing")
		sp.CreateAttr("w:after", "60")
		if e.Level > 1 {
			ind := pPr.CreateElement("w:ind")
			ind.CreateAttr("w:left", strconv.Itoa((e.Level-1)*240))
		}
		tabs := pPr.CreateElement("w:tabs")
		tab := tabs.CreateElement("w:tab")
		tab.CreateAttr("w:val", "right")
		tab.CreateAttr("w:leader", "dot")
		tab.CreateAttr("w:pos", strconv.Itoa(width))

		wr := wp.CreateElement("w:r")
		wt := wr.CreateElement("w:t")
		wt.CreateAttr("xml:space", "preserve")
		wt.SetText(e.Text)

		tabRun := wp.CreateElement("w:r")
		tabRun.CreateElement("w:tab")

		numRun := wp.CreateElement("w:r")
		numText := numRun.CreateElement("w:t")
		numText.SetText(strconv.Itoa(e.PageNumber))
	}
}

func appendSectPr(body *etree.Element, page *config.PageConfig) {
	hasHeader, hasFooter := headerFooterPresence(page)

	sect := body.CreateElement("w:sectPr")
	if hasHeader {
		ref := sect.CreateElement("w:headerReference")
		ref.CreateAttr("w:type", "default")
		ref.CreateAttr("r:id", relIDHeader)
		if page.FacingPages {
			even := sect.CreateElement("w:headerReference")
			even.CreateAttr("w:type", "even")
			even.CreateAttr("r:id", relIDEvenHeader)
		}
	}
	if hasFooter {
		ref := sect.CreateElement("w:footerReference")
		ref.CreateAttr("w:type", "default")
		ref.CreateAttr("r:id", relIDFooter)
		if page.FacingPages {
			even := sect.CreateElement("w:footerReference")
			even.CreateAttr("w:type", "even")
			even.CreateAttr("r:id", relIDEvenFooter)
		}
	}

	w, h := page.Size.Dimensions()
	pgSz := sect.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", strconv.Itoa(w))
	pgSz.CreateAttr("w:h", strconv.Itoa(h))

	pgMar := sect.CreateElement("w:pgMar")
	pgMar.CreateAttr("w:top", strconv.Itoa(page.MarginTop))
	pgMar.CreateAttr("w:right", strconv.Itoa(page.MarginRight))
	pgMar.CreateAttr("w:bottom", strconv.Itoa(page.MarginBottom))
	pgMar.CreateAttr("w:left", strconv.Itoa(page.MarginLeft))
	pgMar.CreateAttr("w:header", "720")
	pgMar.CreateAttr("w:footer", "720")
	pgMar.CreateAttr("w:gutter", "0")

	if page.FacingPages {
		sect.CreateElement("w:mirrorMargins")
	}
}
