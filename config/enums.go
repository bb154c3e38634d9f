package config

// Specification of requested output type.
// ENUM(docx, html)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtDocx:
		return ".docx"
	case OutputFmtHtml:
		return ".html"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// MimeType returns MIME type reported for the generated file.
func (o OutputFmt) MimeType() string {
	switch o {
	case OutputFmtDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case OutputFmtHtml:
		return "text/html"
	default:
		panic("unsupported format requested")
	}
}

// Specification of export mode: plain manuscript or with analysis appendix.
// ENUM(writer, analysis)
type ExportMode int

// Specification of page size for the word-processor output.
// ENUM(letter, a4)
type PageSize int

// Dimensions returns page width and height in twips.
func (p PageSize) Dimensions() (w, h int) {
	switch p {
	case PageSizeA4:
		return 11906, 16838
	default:
		return 12240, 15840
	}
}
