package stylemap

import "testing"

func TestRoundTripBijection(t *testing.T) {
	m := New()
	for _, name := range m.Names() {
		sel := m.ToHTML(name)
		back := m.ToWordStyle(sel.Tag, sel.ClassName)
		if back != name {
			t.Fatalf("style %q -> %s -> %q, round trip lost", name, sel, back)
		}
	}
}

func TestToHTMLUnknown(t *testing.T) {
	m := New()

	if sel := m.ToHTML("Fancy Custom Style"); sel.Tag != "p" || sel.ClassName != "" {
		t.Fatalf("unknown style must degrade to bare paragraph, got %s", sel)
	}
	// unknown heading levels keep a heading tag
	if sel := m.ToHTML("Heading 9"); sel.Tag != "h6" {
		t.Fatalf("Heading 9 must clamp to h6, got %s", sel)
	}
}

func TestToWordStyleFallbacks(t *testing.T) {
	m := New()

	tests := []struct {
		tag, class, want string
	}{
		{"h1", "", "Heading 1"},
		{"h1", "doc-title", "Title"},
		{"p", "doc-subtitle", "Subtitle"},
		{"p", "", "Normal"},
		{"blockquote", "", "Block Quote"},
		{"blockquote", "epigraph", "Epigraph"},
		{"div", "body-text", "Body Text"}, // known class on unexpected tag
		{"strong", "", "Strong"},
		{"span", "book-title", "Book Title"},
		{"p", "never-heard-of-it", "Normal"}, // unknown class, known tag
	}
	for _, tt := range tests {
		if got := m.ToWordStyle(tt.tag, tt.class); got != tt.want {
			t.Fatalf("ToWordStyle(%q, %q) = %q, want %q", tt.tag, tt.class, got, tt.want)
		}
	}

	if got := m.ToWordStyle("video", "whatever"); got != "" {
		t.Fatalf("unmapped combination must report empty, got %q", got)
	}
	if got := m.FallbackStyle("h3"); got != "Heading 3" {
		t.Fatalf("FallbackStyle(h3) = %q", got)
	}
	if got := m.FallbackStyle("video"); got != "Normal" {
		t.Fatalf("FallbackStyle(video) = %q", got)
	}
}

func TestDetectStyles(t *testing.T) {
	m := New()
	html := `<h1 class="doc-title">T</h1><p class="body-text">x</p><blockquote class="epigraph">q</blockquote>`
	got := m.DetectStyles(html)

	want := map[string]bool{"Title": true, "Body Text": true, "Epigraph": true}
	for _, name := range got {
		if !want[name] {
			t.Fatalf("unexpected detected style %q in %v", name, got)
		}
		delete(want, name)
	}
	for name := range want {
		t.Fatalf("style %q not detected, got %v", name, got)
	}
}
