package css

import "testing"

func TestParseDeclarations(t *testing.T) {
	d := ParseDeclarations("font-weight: bold; color: #ff0000; width: 300px; text-decoration: underline line-through")

	if v, ok := d.Get("font-weight"); !ok || v.Keyword != "bold" {
		t.Fatalf("font-weight = %+v, ok=%v", v, ok)
	}
	if v, ok := d.Get("color"); !ok || v.Keyword != "#ff0000" {
		t.Fatalf("color = %+v, ok=%v", v, ok)
	}
	if v, ok := d.Get("width"); !ok || v.Value != 300 || v.Unit != "px" {
		t.Fatalf("width = %+v, ok=%v", v, ok)
	}
	if v, ok := d.Get("text-decoration"); !ok || !v.Contains("underline") || !v.Contains("line-through") {
		t.Fatalf("text-decoration = %+v, ok=%v", v, ok)
	}
}

func TestParseDeclarationsMalformed(t *testing.T) {
	tests := []string{
		"",
		"   ",
		";;;",
		"color",
		"color:;font-weight:bold",
	}
	for _, in := range tests {
		d := ParseDeclarations(in)
		if d == nil {
			t.Fatalf("ParseDeclarations(%q) returned nil", in)
		}
	}
	// unknown properties parse fine, callers just never look them up
	d := ParseDeclarations("-x-vendor-thing: whatever; font-style: italic")
	if v, ok := d.Get("font-style"); !ok || v.Keyword != "italic" {
		t.Fatalf("font-style after unknown property = %+v, ok=%v", v, ok)
	}
}

func TestParseDeclarationsNumericWeight(t *testing.T) {
	d := ParseDeclarations("font-weight: 700")
	v, ok := d.Get("font-weight")
	if !ok || !v.IsNumeric() || v.Value != 700 {
		t.Fatalf("font-weight 700 = %+v, ok=%v", v, ok)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#ff0000", "FF0000", true},
		{"#FF0000", "FF0000", true},
		{"#abc", "AABBCC", true},
		{"#f00", "FF0000", true},
		{"rgb(255, 0, 0)", "FF0000", true},
		{"rgba(16,32,48,0.5)", "102030", true},
		{"rgb(300,0,0)", "", false},
		{"#ab", "", false},
		{"#gggggg", "", false},
		{"red", "", false},
		{"hsl(0,100%,50%)", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseColor(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValuePixels(t *testing.T) {
	if px, ok := ParseDeclarations("width:300px")["width"].Pixels(); !ok || px != 300 {
		t.Fatalf("px width = %v, %v", px, ok)
	}
	if px, ok := ParseDeclarations("width:50%")["width"].Pixels(); ok {
		t.Fatalf("percentage width must not report pixels, got %v", px)
	}
	if _, ok := ParseDeclarations("width:auto")["width"].Pixels(); ok {
		t.Fatal("keyword width must not report pixels")
	}
}
