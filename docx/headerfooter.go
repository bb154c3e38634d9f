package docx

import (
	"archive/zip"
	"strings"

	"github.com/beevik/etree"

	"qpc/config"
	"qpc/docmodel"
)

// Running header/footer text supports two placeholders: {PAGE} expands
// to a live page-number field, {TITLE} to the document title. With
// facing pages the default (odd) part aligns right and the even part
// left, mirroring print conventions; otherwise everything is centered.

func writeHeadersFooters(zw *zip.Writer, title string, page *config.PageConfig) error {
	hasHeader, hasFooter := headerFooterPresence(page)

	footerText := page.Footer
	if footerText == "" && page.PageNumbers {
		footerText = "{PAGE}"
	}

	defaultAlign := docmodel.AlignCenter
	if page.FacingPages {
		defaultAlign = docmodel.AlignRight
	}

	if hasHeader {
		if err := writeXMLToZip(zw, "word/header1.xml",
			headerFooterDoc("w:hdr", "Header", page.Header, title, defaultAlign)); err != nil {
			return err
		}
		if page.FacingPages {
			if err := writeXMLToZip(zw, "word/header2.xml",
				headerFooterDoc("w:hdr", "Header", page.Header, title, docmodel.AlignLeft)); err != nil {
				return err
			}
		}
	}
	if hasFooter {
		if err := writeXMLToZip(zw, "word/footer1.xml",
			headerFooterDoc("w:ftr", "Footer", footerText, title, defaultAlign)); err != nil {
			return err
		}
		if page.FacingPages {
			if err := writeXMLToZip(zw, "word/footer2.xml",
				headerFooterDoc("w:ftr", "Footer", footerText, title, docmodel.AlignLeft)); err != nil {
				return err
			}
		}
	}
	return nil
}

func headerFooterDoc(rootTag, style, text, title string, align docmodel.Alignment) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement(rootTag)
	root.CreateAttr("xmlns:w", nsW)

	wp := root.CreateElement("w:p")
	pPr := wp.CreateElement("w:pPr")
	st := pPr.CreateElement("w:pStyle")
	st.CreateAttr("w:val", style)
	jc := pPr.CreateElement("w:jc")
	jc.CreateAttr("w:val", jcValue(align))

	appendPlaceholderRuns(wp, text, title)
	return doc
}

// appendPlaceholderRuns splits the text around placeholders and emits
// literal runs interleaved with PAGE fields and title substitutions.
func appendPlaceholderRuns(wp *etree.Element, text, title string) {
	text = strings.ReplaceAll(text, "{TITLE}", title)

	for {
		before, after, found := strings.Cut(text, "{PAGE}")
		if before != "" {
			wr := wp.CreateElement("w:r")
			wt := wr.CreateElement("w:t")
			wt.CreateAttr("xml:space", "preserve")
			wt.SetText(before)
		}
		if !found {
			return
		}
		fld := wp.CreateElement("w:fldSimple")
		fld.CreateAttr("w:instr", " PAGE ")
		fr := fld.CreateElement("w:r")
		ft := fr.CreateElement("w:t")
		ft.SetText("1")
		text = after
	}
}
