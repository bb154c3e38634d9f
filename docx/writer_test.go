package docx

import (
	"archive/zip"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"qpc/config"
	"qpc/docmodel"
	"qpc/stylemap"
)

func testConfig() *config.DocumentConfig {
	return &config.DocumentConfig{
		Page: config.PageConfig{
			MarginTop:    1440,
			MarginBottom: 1440,
			MarginLeft:   1440,
			MarginRight:  1440,
		},
		TOC: config.TOCConfig{Title: "Contents", MaxLevel: 3, CharsPerPage: 3000},
	}
}

// generateAndOpen runs the assembler and returns the parsed part documents
// keyed by archive path.
func generateAndOpen(t *testing.T, blocks []docmodel.Block, cfg *config.DocumentConfig) map[string]*etree.Document {
	t.Helper()

	out := filepath.Join(t.TempDir(), "out.docx")
	a := NewAssembler(stylemap.New(), nil)
	if err := a.Generate(context.Background(), blocks, "Test Title", out, cfg); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("result is not a zip archive: %v", err)
	}
	defer zr.Close()

	parts := make(map[string]*etree.Document)
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".xml") && !strings.HasSuffix(f.Name, ".rels") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		doc := etree.NewDocument()
		if _, err := doc.ReadFrom(rc); err != nil {
			t.Fatalf("parse %s: %v", f.Name, err)
		}
		rc.Close()
		parts[f.Name] = doc
	}
	return parts
}

func findAll(doc *etree.Document, path string) []*etree.Element {
	return doc.FindElements(path)
}

func TestGenerateCoreParts(t *testing.T) {
	cfg := testConfig()
	cfg.Page.Header = "{TITLE}"
	cfg.Page.PageNumbers = true
	parts := generateAndOpen(t, []docmodel.Block{
		&docmodel.Paragraph{Runs: []docmodel.TextRun{{Text: "hello"}}, Style: "Normal"},
	}, cfg)

	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/styles.xml",
		"word/_rels/document.xml.rels",
		"word/settings.xml",
		"word/header1.xml",
		"word/footer1.xml",
		"docProps/core.xml",
		"docProps/app.xml",
	} {
		if parts[want] == nil {
			t.Errorf("missing part %s", want)
		}
	}
}

func TestGenerateParagraphStyleAndRuns(t *testing.T) {
	parts := generateAndOpen(t, []docmodel.Block{
		&docmodel.Paragraph{
			Runs: []docmodel.TextRun{
				{Text: "Plain "},
				{Text: "bold", Flags: docmodel.StyleFlags{Bold: true}},
			},
			Style:        "Heading 1",
			HeadingLevel: 1,
			KeepNext:     true,
			Spacing:      docmodel.Spacing{Before: 400, After: 240},
		},
	}, testConfig())

	doc := parts["word/document.xml"]
	ps := findAll(doc, "//w:body/w:p")
	if len(ps) == 0 {
		t.Fatal("no paragraphs in body")
	}
	p := ps[0]

	if st := p.FindElement("w:pPr/w:pStyle"); st == nil || st.SelectAttrValue("w:val", "") != "Heading1" {
		t.Errorf("expected pStyle Heading1, got %v", st)
	}
	if p.FindElement("w:pPr/w:keepNext") == nil {
		t.Error("heading must carry w:keepNext")
	}
	if sp := p.FindElement("w:pPr/w:spacing"); sp == nil || sp.SelectAttrValue("w:before", "") != "400" {
		t.Errorf("spacing before not written: %v", sp)
	}

	runs := p.FindElements("w:r")
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].FindElement("w:rPr/w:b") != nil {
		t.Error("plain run must not be bold")
	}
	if runs[1].FindElement("w:rPr/w:b") == nil {
		t.Error("second run must be bold")
	}
	if txt := runs[1].FindElement("w:t"); txt == nil || txt.Text() != "bold" {
		t.Errorf("run text lost: %v", txt)
	}
}

func TestGenerateShadingAndIndent(t *testing.T) {
	parts := generateAndOpen(t, []docmodel.Block{
		&docmodel.Paragraph{
			Runs:    []docmodel.TextRun{{Text: "callout"}},
			Style:   "Normal",
			Shading: "FFF4E5",
			Indent:  docmodel.Indent{Left: 240, Right: 240},
		},
	}, testConfig())

	p := parts["word/document.xml"].FindElement("//w:body/w:p")
	if sh := p.FindElement("w:pPr/w:shd"); sh == nil || sh.SelectAttrValue("w:fill", "") != "FFF4E5" {
		t.Errorf("shading fill not written: %v", sh)
	}
	if ind := p.FindElement("w:pPr/w:ind"); ind == nil || ind.SelectAttrValue("w:left", "") != "240" {
		t.Errorf("indent not written: %v", ind)
	}
}

func TestGenerateSectionGeometry(t *testing.T) {
	cfg := testConfig()
	cfg.Page.FacingPages = true
	cfg.Page.PageNumbers = true
	cfg.Page.Header = "{TITLE}"
	parts := generateAndOpen(t, []docmodel.Block{
		&docmodel.Paragraph{Runs: []docmodel.TextRun{{Text: "x"}}, Style: "Normal"},
	}, cfg)

	doc := parts["word/document.xml"]
	sect := doc.FindElement("//w:body/w:sectPr")
	if sect == nil {
		t.Fatal("no sectPr")
	}
	if sz := sect.FindElement("w:pgSz"); sz == nil || sz.SelectAttrValue("w:w", "") != "12240" {
		t.Errorf("default letter width not written: %v", sz)
	}
	if mar := sect.FindElement("w:pgMar"); mar == nil || mar.SelectAttrValue("w:top", "") != "1440" {
		t.Errorf("margins not written: %v", mar)
	}
	if sect.FindElement("w:mirrorMargins") == nil {
		t.Error("facing pages must mirror margins")
	}
	// even/odd switch lives in settings, not in the section
	if parts["word/settings.xml"].FindElement("//w:evenAndOddHeaders") == nil {
		t.Error("facing pages must enable evenAndOddHeaders in settings")
	}
	if parts["word/header2.xml"] == nil || parts["word/footer2.xml"] == nil {
		t.Error("facing pages must emit even header and footer parts")
	}

	refs := sect.FindElements("w:headerReference")
	if len(refs) != 2 {
		t.Errorf("expected default and even header references, got %d", len(refs))
	}
}

func TestGeneratePageNumberField(t *testing.T) {
	cfg := testConfig()
	cfg.Page.PageNumbers = true
	parts := generateAndOpen(t, []docmodel.Block{
		&docmodel.Paragraph{Runs: []docmodel.TextRun{{Text: "x"}}, Style: "Normal"},
	}, cfg)

	fld := parts["word/footer1.xml"].FindElement("//w:fldSimple")
	if fld == nil {
		t.Fatal("footer must carry a PAGE field")
	}
	if instr := fld.SelectAttrValue("w:instr", ""); !strings.Contains(instr, "PAGE") {
		t.Errorf("unexpected field instruction %q", instr)
	}
}

func TestGenerateImageBlock(t *testing.T) {
	// 1x1 px png header is enough, the assembler stores bytes verbatim
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 1, 2, 3}
	parts := generateAndOpen(t, []docmodel.Block{
		&docmodel.Image{Data: data, Format: "png", Width: 120, Height: 80},
	}, testConfig())

	doc := parts["word/document.xml"]
	blip := doc.FindElement("//a:blip")
	if blip == nil {
		t.Fatal("no a:blip in document")
	}
	relID := blip.SelectAttrValue("r:embed", "")
	if relID == "" {
		t.Fatal("blip has no relationship id")
	}

	found := false
	for _, rel := range parts["word/_rels/document.xml.rels"].FindElements("//Relationship") {
		if rel.SelectAttrValue("Id", "") == relID {
			found = true
			if tgt := rel.SelectAttrValue("Target", ""); !strings.HasPrefix(tgt, "media/") {
				t.Errorf("image relationship target %q not under media/", tgt)
			}
		}
	}
	if !found {
		t.Errorf("relationship %s not declared", relID)
	}

	if ext := doc.FindElement("//wp:extent"); ext == nil || ext.SelectAttrValue("cx", "") != "1524000" {
		t.Errorf("extent not in EMU (120pt * 12700): %v", ext)
	}
}

func TestGenerateBorderlessTable(t *testing.T) {
	row := &docmodel.TableRow{
		Borderless: true,
		Cells: [][]*docmodel.Paragraph{
			{{Runs: []docmodel.TextRun{{Text: "left"}}, Style: "Normal"}},
			{{Runs: []docmodel.TextRun{{Text: "right"}}, Style: "Normal"}},
		},
	}
	parts := generateAndOpen(t, []docmodel.Block{row}, testConfig())

	doc := parts["word/document.xml"]
	tbl := doc.FindElement("//w:tbl")
	if tbl == nil {
		t.Fatal("no table in body")
	}
	if cells := tbl.FindElements("w:tr/w:tc"); len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if b := tbl.FindElement("w:tblPr/w:tblBorders/w:top"); b == nil || b.SelectAttrValue("w:val", "") != "none" {
		t.Errorf("borderless table must write none borders: %v", b)
	}

	// the table must be followed by a paragraph so the document does not
	// end on a tbl
	body := doc.FindElement("//w:body")
	children := body.ChildElements()
	sawTable := false
	for i, ch := range children {
		if ch.Tag == "tbl" {
			sawTable = true
			if i+1 >= len(children) || children[i+1].Tag != "p" {
				t.Error("w:tbl must be followed by w:p")
			}
		}
	}
	if !sawTable {
		t.Fatal("table element not found in body children")
	}
}

func TestGenerateTOCPlacement(t *testing.T) {
	cfg := testConfig()
	cfg.TOC.Enable = true
	blocks := []docmodel.Block{
		&docmodel.Paragraph{Runs: []docmodel.TextRun{{Text: "Chapter"}}, Style: "Heading 1", HeadingLevel: 1},
		&docmodel.Paragraph{Runs: []docmodel.TextRun{{Text: "body"}}, Style: "Normal"},
	}
	parts := generateAndOpen(t, blocks, cfg)

	body := parts["word/document.xml"].FindElement("//w:body")
	first := body.ChildElements()[0]
	if first.Tag != "p" {
		t.Fatalf("first body child is %s, want p", first.Tag)
	}
	// with no marker the contents go first, so the first paragraph is the
	// TOC title
	var text strings.Builder
	for _, tEl := range first.FindElements("w:r/w:t") {
		text.WriteString(tEl.Text())
	}
	if text.String() != "Contents" {
		t.Errorf("first paragraph %q, want TOC title", text.String())
	}
}

func TestGenerateStylesPart(t *testing.T) {
	parts := generateAndOpen(t, []docmodel.Block{
		&docmodel.Paragraph{Runs: []docmodel.TextRun{{Text: "x"}}, Style: "Normal"},
	}, testConfig())

	styles := parts["word/styles.xml"]
	got := make(map[string]bool)
	for _, st := range styles.FindElements("//w:style") {
		got[st.SelectAttrValue("w:styleId", "")] = true
	}
	for _, want := range []string{"Normal", "Heading1", "Title", "BlockQuote", "Strong", "Header", "Footer"} {
		if !got[want] {
			t.Errorf("styles part missing %s", want)
		}
	}
}
