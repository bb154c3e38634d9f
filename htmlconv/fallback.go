package htmlconv

import (
	"strings"

	"qpc/docmodel"
)

// PlainTextBlocks splits raw text on blank lines and produces one plain
// paragraph per chunk. Used when structured conversion produced nothing
// but the source still carried text.
func PlainTextBlocks(text string) []docmodel.Block {
	var out []docmodel.Block
	for _, chunk := range splitParagraphs(text) {
		norm := strings.TrimSpace(docmodel.NormalizeSpace(docmodel.SanitizeText(chunk)))
		if norm == "" {
			continue
		}
		out = append(out, &docmodel.Paragraph{
			Runs:    []docmodel.TextRun{{Text: norm}},
			Style:   "Normal",
			Spacing: docmodel.Spacing{After: 200},
		})
	}
	return out
}

// splitParagraphs breaks on runs of two or more newlines, tolerating
// intervening spaces and carriage returns.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var chunks []string
	var cur strings.Builder
	blank := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			blank++
			continue
		}
		if blank > 0 && cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		} else if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		blank = 0
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
