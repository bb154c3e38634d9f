package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"path"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"qpc/store"
	"qpc/stylemap"
)

// ImportResult is what the editor receives after a successful import.
type ImportResult struct {
	DocumentID string
	HTML       string
	Text       string
	Meta       store.Metadata
}

// ImportOptions control one import call.
type ImportOptions struct {
	FileName string
	// PreserveOriginal stores the original binary for later
	// higher-fidelity re-export attempts.
	PreserveOriginal bool
}

// Importer converts .docx bytes into editable HTML plus a parallel
// plain-text extraction.
type Importer struct {
	log    *zap.Logger
	styles *stylemap.Map
	store  store.Store
}

func NewImporter(styles *stylemap.Map, st store.Store, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	if styles == nil {
		styles = stylemap.New()
	}
	return &Importer{log: log.Named("docx"), styles: styles, store: st}
}

// Import decodes the container and, on success, stores the original
// keyed by a fresh document id. A failed import persists nothing.
func (im *Importer) Import(ctx context.Context, data []byte, opt ImportOptions) (*ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, corrupt(err)
	}

	docXML, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return nil, unsupported(fmt.Errorf("no document part: %w", err))
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(docXML); err != nil {
		return nil, corrupt(fmt.Errorf("document part: %w", err))
	}
	body := findChild(findChild(&doc.Element, "document"), "body")
	if body == nil {
		return nil, corrupt(fmt.Errorf("document part has no body"))
	}

	styleNames := im.readStyleNames(zr)
	media := im.readMedia(zr)

	var htmlParts, textParts []string
	hasImages := false
	for _, child := range body.ChildElements() {
		switch child.Tag {
		case "p":
			h, t, img := im.paragraphToHTML(child, styleNames, media)
			if h != "" {
				htmlParts = append(htmlParts, h)
			}
			if t != "" {
				textParts = append(textParts, t)
			}
			hasImages = hasImages || img
		case "tbl":
			h, t := im.tableToHTML(child, styleNames, media)
			if h != "" {
				htmlParts = append(htmlParts, h)
			}
			if t != "" {
				textParts = append(textParts, t)
			}
		}
	}

	htmlOut := strings.Join(htmlParts, "\n")
	textOut := strings.Join(textParts, "\n\n")

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate document id: %w", err)
	}

	res := &ImportResult{
		DocumentID: id.String(),
		HTML:       htmlOut,
		Text:       textOut,
		Meta: store.Metadata{
			FileName:       opt.FileName,
			UploadedAt:     time.Now().UTC(),
			OriginalSize:   int64(len(data)),
			HasImages:      hasImages,
			DetectedStyles: im.styles.DetectStyles(htmlOut),
		},
	}

	if im.store != nil && opt.PreserveOriginal {
		err := im.store.Put(ctx, &store.Record{
			ID:       res.DocumentID,
			Meta:     res.Meta,
			Original: data,
			HTML:     htmlOut,
			Text:     textOut,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to store original document: %w", err)
		}
	}

	im.log.Info("Imported document",
		zap.String("id", res.DocumentID),
		zap.String("file", opt.FileName),
		zap.Int("paragraphs", len(htmlParts)),
		zap.Bool("images", hasImages))
	return res, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// findChild returns the first child element with the given local name,
// prefix-agnostic since producers differ in namespace prefixes.
func findChild(e *etree.Element, tag string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// attr returns an attribute value by local name.
func attr(e *etree.Element, key string) string {
	if e == nil {
		return ""
	}
	for _, a := range e.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// readStyleNames maps style ids to their display names from styles.xml.
// A missing or broken styles part degrades to id-based heuristics.
func (im *Importer) readStyleNames(zr *zip.Reader) map[string]string {
	names := make(map[string]string)
	raw, err := readZipFile(zr, "word/styles.xml")
	if err != nil {
		return names
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		im.log.Warn("Unable to parse styles part", zap.Error(err))
		return names
	}
	root := findChild(&doc.Element, "styles")
	if root == nil {
		return names
	}
	for _, style := range root.ChildElements() {
		if style.Tag != "style" {
			continue
		}
		id := attr(style, "styleId")
		name := attr(findChild(style, "name"), "val")
		if id != "" && name != "" {
			names[id] = name
		}
	}
	return names
}

// readMedia loads embedded media parts keyed by relationship id.
func (im *Importer) readMedia(zr *zip.Reader) map[string][]byte {
	media := make(map[string][]byte)
	raw, err := readZipFile(zr, "word/_rels/document.xml.rels")
	if err != nil {
		return media
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		im.log.Warn("Unable to parse document relationships", zap.Error(err))
		return media
	}
	root := findChild(&doc.Element, "Relationships")
	if root == nil {
		return media
	}
	for _, rel := range root.ChildElements() {
		if rel.Tag != "Relationship" || !strings.HasSuffix(attr(rel, "Type"), "/image") {
			continue
		}
		id := attr(rel, "Id")
		target := path.Join("word", attr(rel, "Target"))
		data, err := readZipFile(zr, target)
		if err != nil {
			// per-image failure, the rest of the document still imports
			im.log.Warn("Unable to read embedded image", zap.String("target", target), zap.Error(err))
			continue
		}
		media[id] = data
	}
	return media
}

// runStyle is the inline state of one w:r element.
type runStyle struct {
	bold      bool
	italic    bool
	underline bool
	strike    bool
	super     bool
	sub       bool
	color     string
	font      string
	charStyle string
}

func (im *Importer) paragraphToHTML(p *etree.Element, styleNames map[string]string, media map[string][]byte) (html string, text string, hasImage bool) {
	styleName := im.paragraphStyleName(p, styleNames)
	sel := im.styles.ToHTML(styleName)

	var b, tb strings.Builder
	for _, child := range p.ChildElements() {
		if child.Tag != "r" {
			continue
		}
		h, t, img := im.runToHTML(child, media)
		b.WriteString(h)
		tb.WriteString(t)
		hasImage = hasImage || img
	}

	open := "<" + sel.Tag
	if sel.ClassName != "" {
		open += ` class="` + sel.ClassName + `"`
	}
	open += ">"
	return open + b.String() + "</" + sel.Tag + ">", strings.TrimSpace(tb.String()), hasImage
}

func (im *Importer) paragraphStyleName(p *etree.Element, styleNames map[string]string) string {
	id := attr(findChild(findChild(p, "pPr"), "pStyle"), "val")
	if id == "" {
		return "Normal"
	}
	if name, ok := styleNames[id]; ok {
		return name
	}
	return id
}

func (im *Importer) runToHTML(r *etree.Element, media map[string][]byte) (html string, text string, hasImage bool) {
	rs := readRunStyle(findChild(r, "rPr"))

	var b, tb strings.Builder
	for _, child := range r.ChildElements() {
		switch child.Tag {
		case "t":
			b.WriteString(escapeText(child.Text()))
			tb.WriteString(child.Text())
		case "br":
			b.WriteString("<br/>")
			tb.WriteByte('\n')
		case "tab":
			b.WriteString("\t")
			tb.WriteByte('\t')
		case "drawing", "pict", "object":
			if img := im.drawingToHTML(child, media); img != "" {
				b.WriteString(img)
				hasImage = true
			}
		}
	}
	if b.Len() == 0 {
		return "", tb.String(), hasImage
	}
	return wrapInline(b.String(), rs, im.styles), tb.String(), hasImage
}

func readRunStyle(rPr *etree.Element) runStyle {
	var rs runStyle
	if rPr == nil {
		return rs
	}
	onOff := func(e *etree.Element) bool {
		if e == nil {
			return false
		}
		v := attr(e, "val")
		return v == "" || v == "1" || v == "true" || v == "on"
	}
	rs.bold = onOff(findChild(rPr, "b"))
	rs.italic = onOff(findChild(rPr, "i"))
	rs.strike = onOff(findChild(rPr, "strike"))
	if u := findChild(rPr, "u"); u != nil && attr(u, "val") != "none" {
		rs.underline = true
	}
	switch attr(findChild(rPr, "vertAlign"), "val") {
	case "superscript":
		rs.super = true
	case "subscript":
		rs.sub = true
	}
	if c := attr(findChild(rPr, "color"), "val"); c != "" && c != "auto" {
		rs.color = strings.ToUpper(c)
	}
	rs.font = attr(findChild(rPr, "rFonts"), "ascii")
	rs.charStyle = attr(findChild(rPr, "rStyle"), "val")
	return rs
}

// wrapInline nests the HTML renditions of the run's inline properties
// around the escaped content.
func wrapInline(content string, rs runStyle, styles *stylemap.Map) string {
	if rs.super {
		content = "<sup>" + content + "</sup>"
	}
	if rs.sub {
		content = "<sub>" + content + "</sub>"
	}
	if rs.strike {
		content = "<s>" + content + "</s>"
	}
	if rs.underline {
		content = "<u>" + content + "</u>"
	}
	if rs.italic {
		content = "<em>" + content + "</em>"
	}
	if rs.bold {
		content = "<strong>" + content + "</strong>"
	}

	var styleAttrs []string
	if rs.color != "" {
		styleAttrs = append(styleAttrs, "color: #"+rs.color)
	}
	if rs.font != "" {
		styleAttrs = append(styleAttrs, "font-family: '"+rs.font+"'")
	}

	class := ""
	if rs.charStyle != "" {
		// character style references round-trip through the style map
		if name := deSpacedName(rs.charStyle, styles); name != "" {
			if sel := styles.ToHTML(name); sel.ClassName != "" {
				class = sel.ClassName
			}
		}
	}

	if len(styleAttrs) > 0 || class != "" {
		open := "<span"
		if class != "" {
			open += ` class="` + class + `"`
		}
		if len(styleAttrs) > 0 {
			open += ` style="` + strings.Join(styleAttrs, "; ") + `"`
		}
		content = open + ">" + content + "</span>"
	}
	return content
}

// deSpacedName resolves a style id ("BookTitle") back to its display
// name ("Book Title") within the enumerated set.
func deSpacedName(id string, styles *stylemap.Map) string {
	for _, name := range styles.Names() {
		if styleID(name) == id {
			return name
		}
	}
	return ""
}

// drawingToHTML extracts the first embedded blip reference and renders
// the image as an inline data URI so the editor needs no fetches.
func (im *Importer) drawingToHTML(drawing *etree.Element, media map[string][]byte) string {
	relID := findBlipEmbed(drawing)
	if relID == "" {
		return ""
	}
	data, ok := media[relID]
	if !ok {
		im.log.Warn("Embedded image reference without media part", zap.String("rel", relID))
		return ""
	}
	return `<img src="data:` + sniffImageMime(data) + `;base64,` +
		base64.StdEncoding.EncodeToString(data) + `"/>`
}

func findBlipEmbed(e *etree.Element) string {
	if e.Tag == "blip" {
		for _, a := range e.Attr {
			if a.Key == "embed" {
				return a.Value
			}
		}
	}
	for _, c := range e.ChildElements() {
		if id := findBlipEmbed(c); id != "" {
			return id
		}
	}
	return ""
}

func sniffImageMime(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("GIF")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte{0x42, 0x4D}):
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

func (im *Importer) tableToHTML(tbl *etree.Element, styleNames map[string]string, media map[string][]byte) (string, string) {
	var hb strings.Builder
	var rows []string
	hb.WriteString("<table>")
	for _, tr := range tbl.ChildElements() {
		if tr.Tag != "tr" {
			continue
		}
		var cells []string
		hb.WriteString("<tr>")
		for _, tc := range tr.ChildElements() {
			if tc.Tag != "tc" {
				continue
			}
			var cellHTML, cellText []string
			for _, p := range tc.ChildElements() {
				if p.Tag != "p" {
					continue
				}
				h, t, _ := im.paragraphToHTML(p, styleNames, media)
				cellHTML = append(cellHTML, h)
				if t != "" {
					cellText = append(cellText, t)
				}
			}
			hb.WriteString("<td>" + strings.Join(cellHTML, "") + "</td>")
			cells = append(cells, strings.Join(cellText, " "))
		}
		hb.WriteString("</tr>")
		if row := strings.TrimSpace(strings.Join(cells, " | ")); row != "" {
			rows = append(rows, row)
		}
	}
	hb.WriteString("</table>")
	return hb.String(), strings.Join(rows, "\n")
}

func escapeText(s string) string {
	return html.EscapeString(s)
}
