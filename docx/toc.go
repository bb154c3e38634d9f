package docx

import "qpc/docmodel"

// TocEntry is one table of contents line. PageNumber is an estimate
// derived from a fixed characters-per-page heuristic; the consuming word
// processor computes true pagination at render time and may disagree.
type TocEntry struct {
	Text       string
	Level      int
	PageNumber int
}

const defaultCharsPerPage = 3000

// ComputeTOC scans the block sequence for headings up to maxLevel and
// estimates their page numbers. Explicit page breaks advance to the next
// page boundary.
func ComputeTOC(blocks []docmodel.Block, charsPerPage, maxLevel int) []TocEntry {
	if charsPerPage <= 0 {
		charsPerPage = defaultCharsPerPage
	}
	if maxLevel <= 0 {
		maxLevel = 3
	}

	var entries []TocEntry
	chars := 0
	for _, b := range blocks {
		switch b := b.(type) {
		case *docmodel.Paragraph:
			text := b.Text()
			if b.HeadingLevel >= 1 && b.HeadingLevel <= maxLevel && text != "" {
				entries = append(entries, TocEntry{
					Text:       text,
					Level:      b.HeadingLevel,
					PageNumber: chars/charsPerPage + 1,
				})
			}
			chars += len([]rune(text)) + 1
		case *docmodel.TableRow:
			for _, cell := range b.Cells {
				for _, p := range cell {
					chars += len([]rune(p.Text())) + 1
				}
			}
		case *docmodel.Callout:
			for _, p := range b.Content {
				chars += len([]rune(p.Text())) + 1
			}
		case *docmodel.Image:
			// images consume page space too, roughly a third of a page
			chars += charsPerPage / 3
		case *docmodel.PageBreak:
			chars = (chars/charsPerPage + 1) * charsPerPage
		}
	}
	return entries
}
