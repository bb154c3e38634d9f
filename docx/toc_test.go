package docx

import (
	"strings"
	"testing"

	"qpc/docmodel"
)

func heading(level int, text string) *docmodel.Paragraph {
	return &docmodel.Paragraph{
		Runs:         []docmodel.TextRun{{Text: text}},
		Style:        "Heading " + string(rune('0'+level)),
		HeadingLevel: level,
	}
}

func body(chars int) *docmodel.Paragraph {
	return &docmodel.Paragraph{Runs: []docmodel.TextRun{{Text: strings.Repeat("x", chars)}}}
}

func TestComputeTOCLevels(t *testing.T) {
	blocks := []docmodel.Block{
		heading(1, "One"),
		heading(2, "One point one"),
		heading(3, "Deep"),
		heading(4, "Too deep"),
		body(100),
	}
	entries := ComputeTOC(blocks, 1000, 3)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	for i, want := range []string{"One", "One point one", "Deep"} {
		if entries[i].Text != want {
			t.Errorf("entry %d: got %q, want %q", i, entries[i].Text, want)
		}
		if entries[i].Level != i+1 {
			t.Errorf("entry %d: level %d, want %d", i, entries[i].Level, i+1)
		}
	}
}

func TestComputeTOCPageEstimate(t *testing.T) {
	blocks := []docmodel.Block{
		heading(1, "First"), // 5 chars counted
		body(1200),
		heading(1, "Second"), // past one full page of 1000 chars
		body(100),
	}
	entries := ComputeTOC(blocks, 1000, 3)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PageNumber != 1 {
		t.Errorf("first heading on page %d, want 1", entries[0].PageNumber)
	}
	if entries[1].PageNumber != 2 {
		t.Errorf("second heading on page %d, want 2", entries[1].PageNumber)
	}
}

func TestComputeTOCPageBreakRounding(t *testing.T) {
	blocks := []docmodel.Block{
		body(10),
		&docmodel.PageBreak{},
		heading(1, "After break"),
	}
	entries := ComputeTOC(blocks, 1000, 3)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	// 10 chars would still be page 1, the explicit break moves the heading
	// to page 2 regardless
	if entries[0].PageNumber != 2 {
		t.Errorf("heading after page break on page %d, want 2", entries[0].PageNumber)
	}
}

func TestComputeTOCDefaultsApplied(t *testing.T) {
	blocks := []docmodel.Block{heading(1, "Only")}
	entries := ComputeTOC(blocks, 0, 0)
	if len(entries) != 1 || entries[0].PageNumber != 1 {
		t.Fatalf("defaulted compute failed: %+v", entries)
	}
}

func TestComputeTOCEmpty(t *testing.T) {
	if entries := ComputeTOC([]docmodel.Block{body(50)}, 1000, 3); len(entries) != 0 {
		t.Fatalf("no headings must yield no entries, got %+v", entries)
	}
}
