package docmodel

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "Hello, world", "Hello, world"},
		{"null and bell", "a\x00b\x07c", "abc"},
		{"vertical tab and form feed", "a\x0bb\x0cc", "abc"},
		{"delete", "a\x7fb", "ab"},
		{"keeps tab lf cr", "a\tb\nc\rd", "a\tb\nc\rd"},
		{"private range", "\x0e\x1f", ""},
		{"unicode untouched", "café — naïve", "café — naïve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.in); got != tt.want {
				t.Fatalf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"hello", "hello"},
		{"hello  world", "hello world"},
		{"\n\t hello \n world \t", " hello world "},
		{"   ", " "},
		{"a  b", "a b"}, // nbsp counts as space for collapsing
	}
	for _, tt := range tests {
		if got := NormalizeSpace(tt.in); got != tt.want {
			t.Fatalf("NormalizeSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStyleFlagsExclusivity(t *testing.T) {
	var f StyleFlags

	f = f.WithSuperScript()
	if !f.SuperScript || f.SubScript {
		t.Fatalf("expected superscript only, got %+v", f)
	}

	f = f.WithSubScript()
	if f.SuperScript || !f.SubScript {
		t.Fatalf("expected subscript only, got %+v", f)
	}

	// exercise a few alternations - exclusivity must hold after any sequence
	for i := 0; i < 5; i++ {
		if i%2 == 0 {
			f = f.WithSuperScript()
		} else {
			f = f.WithSubScript()
		}
		if f.SuperScript && f.SubScript {
			t.Fatalf("superscript and subscript simultaneously true after step %d", i)
		}
	}
}

func TestStyleFlagsCopySemantics(t *testing.T) {
	parent := StyleFlags{Bold: true, Color: "FF0000"}
	child := parent
	child.Italics = true
	child.Color = "0000FF"

	if parent.Italics || parent.Color != "FF0000" {
		t.Fatalf("parent flags mutated through child copy: %+v", parent)
	}
}

func TestParagraphIsEmpty(t *testing.T) {
	p := &Paragraph{}
	if !p.IsEmpty() {
		t.Fatal("paragraph with no runs must be empty")
	}
	p.Runs = append(p.Runs, TextRun{LineBreak: true})
	if p.IsEmpty() {
		t.Fatal("line break counts as content")
	}
	p = &Paragraph{Runs: []TextRun{{Text: "x"}}}
	if p.IsEmpty() {
		t.Fatal("text counts as content")
	}
}
