package docx

import (
	"archive/zip"
	"strconv"

	"github.com/beevik/etree"

	"qpc/stylemap"
)

// paragraphStyleDef is the visual recipe of one named paragraph style.
// Sizes are half-points, spacing twentieths of a point, indents twips.
type paragraphStyleDef struct {
	size       int
	bold       bool
	italic     bool
	color      string
	before     int
	after      int
	indentLeft int
	firstLine  int
	outline    int // 1-based heading level, 0 for none
	center     bool
	basedOn    string
}

var paragraphStyleDefs = map[string]paragraphStyleDef{
	"Normal":                 {size: 24, after: 200},
	"Title":                  {size: 56, after: 240, center: true},
	"Subtitle":               {size: 32, italic: true, color: "595959", after: 240, center: true},
	"Heading 1":              {size: 32, bold: true, before: 400, after: 240, outline: 1},
	"Heading 2":              {size: 28, bold: true, before: 320, after: 160, outline: 2},
	"Heading 3":              {size: 26, bold: true, before: 240, after: 120, outline: 3},
	"Heading 4":              {size: 24, bold: true, italic: true, before: 200, after: 120, outline: 4},
	"Heading 5":              {size: 24, bold: true, color: "404040", before: 200, after: 120, outline: 5},
	"Heading 6":              {size: 24, italic: true, color: "404040", before: 200, after: 120, outline: 6},
	"Body Text":              {size: 24, after: 200},
	"Body Text First Indent": {size: 24, after: 200, firstLine: 360},
	"No Spacing":             {size: 24},
	"Quote":                  {size: 24, italic: true, indentLeft: 720, before: 160, after: 160},
	"Block Quote":            {size: 24, indentLeft: 720, before: 160, after: 160},
	"Epigraph":               {size: 22, italic: true, indentLeft: 2880, after: 240},
	"List Paragraph":         {size: 24, indentLeft: 720, after: 120},
	"List Bullet":            {size: 24, indentLeft: 720, after: 120},
	"List Number":            {size: 24, indentLeft: 720, after: 120},
}

// characterStyleDef is the recipe of one named character style.
type characterStyleDef struct {
	bold      bool
	italic    bool
	smallCaps bool
	underline bool
	color     string
}

var characterStyleDefs = map[string]characterStyleDef{
	"Strong":           {bold: true},
	"Emphasis":         {italic: true},
	"Book Title":       {bold: true, italic: true, smallCaps: true},
	"Subtle Emphasis":  {italic: true, color: "595959"},
	"Subtle Reference": {smallCaps: true, color: "595959"},
	"Underline":        {underline: true},
}

// writeStyles emits word/styles.xml covering every name the style map
// enumerates, so an exported file imports back through the same table.
func (a *Assembler) writeStyles(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)

	docDefaults := root.CreateElement("w:docDefaults")
	rPrDefault := docDefaults.CreateElement("w:rPrDefault")
	rPr := rPrDefault.CreateElement("w:rPr")
	fonts := rPr.CreateElement("w:rFonts")
	fonts.CreateAttr("w:ascii", "Calibri")
	fonts.CreateAttr("w:hAnsi", "Calibri")
	sz := rPr.CreateElement("w:sz")
	sz.CreateAttr("w:val", "24")

	for _, name := range a.styles.Names() {
		kind, _ := a.styles.KindOf(name)
		switch kind {
		case stylemap.KindParagraph:
			appendParagraphStyle(root, name, paragraphStyleDefs[name])
		case stylemap.KindCharacter:
			appendCharacterStyle(root, name, characterStyleDefs[name])
		}
	}

	// header/footer paragraph styles referenced from the running parts
	for _, name := range []string{"Header", "Footer"} {
		appendParagraphStyle(root, name, paragraphStyleDef{size: 20})
	}

	return writeXMLToZip(zw, "word/styles.xml", doc)
}

func appendParagraphStyle(root *etree.Element, name string, def paragraphStyleDef) {
	style := root.CreateElement("w:style")
	style.CreateAttr("w:type", "paragraph")
	style.CreateAttr("w:styleId", styleID(name))
	if name == "Normal" {
		style.CreateAttr("w:default", "1")
	}

	n := style.CreateElement("w:name")
	n.CreateAttr("w:val", name)
	if name != "Normal" {
		based := style.CreateElement("w:basedOn")
		based.CreateAttr("w:val", "Normal")
		style.CreateElement("w:qFormat")
	}

	pPr := style.CreateElement("w:pPr")
	if def.before > 0 || def.after > 0 {
		sp := pPr.CreateElement("w:spacing")
		if def.before > 0 {
			sp.CreateAttr("w:before", strconv.Itoa(def.before))
		}
		sp.CreateAttr("w:after", strconv.Itoa(def.after))
	}
	if def.indentLeft > 0 || def.firstLine > 0 {
		ind := pPr.CreateElement("w:ind")
		if def.indentLeft > 0 {
			ind.CreateAttr("w:left", strconv.Itoa(def.indentLeft))
		}
		if def.firstLine > 0 {
			ind.CreateAttr("w:firstLine", strconv.Itoa(def.firstLine))
		}
	}
	if def.center {
		jc := pPr.CreateElement("w:jc")
		jc.CreateAttr("w:val", "center")
	}
	if def.outline > 0 {
		pPr.CreateElement("w:keepNext")
		lvl := pPr.CreateElement("w:outlineLvl")
		lvl.CreateAttr("w:val", strconv.Itoa(def.outline-1))
	}

	rPr := style.CreateElement("w:rPr")
	if def.bold {
		rPr.CreateElement("w:b")
	}
	if def.italic {
		rPr.CreateElement("w:i")
	}
	if def.color != "" {
		c := rPr.CreateElement("w:color")
		c.CreateAttr("w:val", def.color)
	}
	if def.size > 0 {
		sz := rPr.CreateElement("w:sz")
		sz.CreateAttr("w:val", strconv.Itoa(def.size))
	}
}

func appendCharacterStyle(root *etree.Element, name string, def characterStyleDef) {
	style := root.CreateElement("w:style")
	style.CreateAttr("w:type", "character")
	style.CreateAttr("w:styleId", styleID(name))

	n := style.CreateElement("w:name")
	n.CreateAttr("w:val", name)

	rPr := style.CreateElement("w:rPr")
	if def.bold {
		rPr.CreateElement("w:b")
	}
	if def.italic {
		rPr.CreateElement("w:i")
	}
	if def.smallCaps {
		rPr.CreateElement("w:smallCaps")
	}
	if def.underline {
		u := rPr.CreateElement("w:u")
		u.CreateAttr("w:val", "single")
	}
	if def.color != "" {
		c := rPr.CreateElement("w:color")
		c.CreateAttr("w:val", def.color)
	}
}
