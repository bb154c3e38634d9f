package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"qpc/config"
	"qpc/docmodel"
	"qpc/stylemap"
)

// OOXML namespaces and relationship types.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsDML = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeHeader   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relTypeImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeSettings = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relTypeCore     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeApp      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
)

// emuPerPoint converts display points to English Metric Units.
const emuPerPoint = 12700

// Relationship ids inside word/_rels/document.xml.rels. Fixed ids for the
// fixed parts, images start above them.
const (
	relIDStyles     = "rId1"
	relIDHeader     = "rId2"
	relIDFooter     = "rId3"
	relIDEvenHeader = "rId4"
	relIDEvenFooter = "rId5"
	relIDSettings   = "rId6"
	imageRelIDBase  = 10
)

// Assembler turns a block sequence into a finished .docx container.
type Assembler struct {
	log    *zap.Logger
	styles *stylemap.Map
}

func NewAssembler(styles *stylemap.Map, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	if styles == nil {
		styles = stylemap.New()
	}
	return &Assembler{log: log.Named("docx"), styles: styles}
}

// mediaFile is one embedded image part.
type mediaFile struct {
	Name        string
	RelID       string
	ContentType string
	Data        []byte
}

type mediaIndex struct {
	files []mediaFile
}

func (m *mediaIndex) add(format string, data []byte) string {
	n := len(m.files) + 1
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	mf := mediaFile{
		Name:        fmt.Sprintf("image%d.%s", n, ext),
		RelID:       fmt.Sprintf("rId%d", imageRelIDBase+n),
		ContentType: "image/" + format,
		Data:        data,
	}
	m.files = append(m.files, mf)
	return mf.RelID
}

// Generate writes the assembled document to outputPath. The file appears
// only after successful serialization, a failed export leaves nothing
// behind.
func (a *Assembler) Generate(ctx context.Context, blocks []docmodel.Block, title, outputPath string, cfg *config.DocumentConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.log.Info("Generating DOCX", zap.String("output", outputPath), zap.Int("blocks", len(blocks)))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	tmpName := outputPath + ".tmp"
	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()
	defer os.Remove(tmpName)

	zw := zip.NewWriter(f)
	defer zw.Close()

	media := &mediaIndex{}
	doc, err := a.buildDocument(blocks, title, cfg, media)
	if err != nil {
		return fmt.Errorf("unable to build document body: %w", err)
	}

	hasHeader, hasFooter := headerFooterPresence(&cfg.Page)

	if err := writeContentTypes(zw, media, &cfg.Page, hasHeader, hasFooter); err != nil {
		return fmt.Errorf("unable to write content types: %w", err)
	}
	if err := writeRootRels(zw); err != nil {
		return fmt.Errorf("unable to write package relationships: %w", err)
	}
	if err := writeCoreProps(zw, title); err != nil {
		return fmt.Errorf("unable to write core properties: %w", err)
	}
	if err := writeAppProps(zw); err != nil {
		return fmt.Errorf("unable to write app properties: %w", err)
	}
	if err := a.writeStyles(zw); err != nil {
		return fmt.Errorf("unable to write styles: %w", err)
	}
	if err := writeHeadersFooters(zw, title, &cfg.Page); err != nil {
		return fmt.Errorf("unable to write headers and footers: %w", err)
	}
	if err := writeSettings(zw, &cfg.Page); err != nil {
		return fmt.Errorf("unable to write settings: %w", err)
	}
	if err := writeXMLToZip(zw, "word/document.xml", doc); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	if err := writeDocumentRels(zw, media, hasHeader, hasFooter, cfg.Page.FacingPages); err != nil {
		return fmt.Errorf("unable to write document relationships: %w", err)
	}
	for _, mf := range media.files {
		if err := writeDataToZip(zw, "word/media/"+mf.Name, mf.Data); err != nil {
			return fmt.Errorf("unable to write image %s: %w", mf.Name, err)
		}
	}

	// make sure buffers are flushed before continuing
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}

	if cfg.FixZip {
		return copyZipWithoutDataDescriptors(tmpName, outputPath)
	}
	return copyFile(tmpName, outputPath)
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func headerFooterPresence(page *config.PageConfig) (header, footer bool) {
	header = page.Header != ""
	footer = page.Footer != "" || page.PageNumbers
	return header, footer
}

func writeContentTypes(zw *zip.Writer, media *mediaIndex, page *config.PageConfig, hasHeader, hasFooter bool) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsCT)

	addDefault := func(ext, ct string) {
		d := types.CreateElement("Default")
		d.CreateAttr("Extension", ext)
		d.CreateAttr("ContentType", ct)
	}
	addDefault("rels", "application/vnd.openxmlformats-package.relationships+xml")
	addDefault("xml", "application/xml")

	seen := map[string]bool{}
	for _, mf := range media.files {
		ext := filepath.Ext(mf.Name)[1:]
		if !seen[ext] {
			addDefault(ext, mf.ContentType)
			seen[ext] = true
		}
	}

	addOverride := func(part, ct string) {
		o := types.CreateElement("Override")
		o.CreateAttr("PartName", part)
		o.CreateAttr("ContentType", ct)
	}
	addOverride("/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")
	addOverride("/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	addOverride("/word/settings.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml")
	addOverride("/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml")
	addOverride("/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml")
	if hasHeader {
		addOverride("/word/header1.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml")
		if page.FacingPages {
			addOverride("/word/header2.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml")
		}
	}
	if hasFooter {
		addOverride("/word/footer1.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml")
		if page.FacingPages {
			addOverride("/word/footer2.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml")
		}
	}

	return writeXMLToZip(zw, "[Content_Types].xml", doc)
}

func writeRootRels(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRel)

	addRel(rels, "rId1", relTypeDocument, "word/document.xml")
	addRel(rels, "rId2", relTypeCore, "docProps/core.xml")
	addRel(rels, "rId3", relTypeApp, "docProps/app.xml")

	return writeXMLToZip(zw, "_rels/.rels", doc)
}

func writeDocumentRels(zw *zip.Writer, media *mediaIndex, hasHeader, hasFooter, facing bool) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRel)

	addRel(rels, relIDStyles, relTypeStyles, "styles.xml")
	addRel(rels, relIDSettings, relTypeSettings, "settings.xml")
	if hasHeader {
		addRel(rels, relIDHeader, relTypeHeader, "header1.xml")
		if facing {
			addRel(rels, relIDEvenHeader, relTypeHeader, "header2.xml")
		}
	}
	if hasFooter {
		addRel(rels, relIDFooter, relTypeFooter, "footer1.xml")
		if facing {
			addRel(rels, relIDEvenFooter, relTypeFooter, "footer2.xml")
		}
	}
	for _, mf := range media.files {
		addRel(rels, mf.RelID, relTypeImage, "media/"+mf.Name)
	}

	return writeXMLToZip(zw, "word/_rels/document.xml.rels", doc)
}

func addRel(parent *etree.Element, id, relType, target string) {
	rel := parent.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
}

func writeCoreProps(zw *zip.Writer, title string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	props := doc.CreateElement("cp:coreProperties")
	props.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	props.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	props.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	props.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	dcTitle := props.CreateElement("dc:title")
	dcTitle.SetText(title)

	created := props.CreateElement("dcterms:created")
	created.CreateAttr("xsi:type", "dcterms:W3CDTF")
	created.SetText(time.Now().UTC().Format("2006-01-02T15:04:05Z"))

	return writeXMLToZip(zw, "docProps/core.xml", doc)
}

func writeAppProps(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	props := doc.CreateElement("Properties")
	props.CreateAttr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")

	app := props.CreateElement("Application")
	app.SetText("qpc")

	return writeXMLToZip(zw, "docProps/app.xml", doc)
}

func writeSettings(zw *zip.Writer, page *config.PageConfig) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	settings := doc.CreateElement("w:settings")
	settings.CreateAttr("xmlns:w", nsW)

	if page.FacingPages {
		// alternating headers/footers only activate with this flag
		settings.CreateElement("w:evenAndOddHeaders")
		settings.CreateElement("w:mirrorMargins")
	}

	return writeXMLToZip(zw, "word/settings.xml", doc)
}

func copyZipWithoutDataDescriptors(from, to string) error {
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destinationFile.Close()

	if _, err = io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err = destinationFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}
