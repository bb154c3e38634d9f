package htmlconv

import (
	"testing"

	"golang.org/x/net/html"

	"qpc/docmodel"
)

func elem(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func TestDeriveStyleTags(t *testing.T) {
	cases := []struct {
		tag  string
		want docmodel.StyleFlags
	}{
		{"strong", docmodel.StyleFlags{Bold: true}},
		{"b", docmodel.StyleFlags{Bold: true}},
		{"em", docmodel.StyleFlags{Italics: true}},
		{"cite", docmodel.StyleFlags{Italics: true}},
		{"u", docmodel.StyleFlags{Underline: true}},
		{"del", docmodel.StyleFlags{Strike: true}},
		{"code", docmodel.StyleFlags{Font: monospaceFont}},
		{"sup", docmodel.StyleFlags{SuperScript: true}},
		{"sub", docmodel.StyleFlags{SubScript: true}},
		{"a", docmodel.StyleFlags{Underline: true, Color: linkColor}},
		{"span", docmodel.StyleFlags{}},
	}
	for _, tc := range cases {
		if got := DeriveStyle(elem(tc.tag), docmodel.StyleFlags{}); got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.tag, got, tc.want)
		}
	}
}

func TestDeriveStyleAdditiveInheritance(t *testing.T) {
	inherited := docmodel.StyleFlags{Bold: true, Color: "FF0000"}

	got := DeriveStyle(elem("em"), inherited)
	if !got.Bold || !got.Italics {
		t.Errorf("inherited flags lost: %+v", got)
	}
	if got.Color != "FF0000" {
		t.Errorf("inherited color lost: %+v", got)
	}

	// a style attribute can never clear an inherited boolean
	got = DeriveStyle(elem("span", "style", "font-weight: normal"), inherited)
	if !got.Bold {
		t.Errorf("font-weight:normal cleared inherited bold: %+v", got)
	}
}

func TestDeriveStyleAttr(t *testing.T) {
	cases := []struct {
		style string
		want  docmodel.StyleFlags
	}{
		{"font-weight: bold", docmodel.StyleFlags{Bold: true}},
		{"font-weight: 700", docmodel.StyleFlags{Bold: true}},
		{"font-weight: 400", docmodel.StyleFlags{}},
		{"font-style: italic", docmodel.StyleFlags{Italics: true}},
		{"text-decoration: underline", docmodel.StyleFlags{Underline: true}},
		{"text-decoration: underline line-through", docmodel.StyleFlags{Underline: true, Strike: true}},
		{"color: #ff0000", docmodel.StyleFlags{Color: "FF0000"}},
		{"color: rgb(0, 128, 255)", docmodel.StyleFlags{Color: "0080FF"}},
		{"margin: 10px; padding: 2em", docmodel.StyleFlags{}},
	}
	for _, tc := range cases {
		if got := DeriveStyle(elem("span", "style", tc.style), docmodel.StyleFlags{}); got != tc.want {
			t.Errorf("%q: got %+v, want %+v", tc.style, got, tc.want)
		}
	}
}

func TestDeriveStyleSupSubExclusive(t *testing.T) {
	f := DeriveStyle(elem("sup"), docmodel.StyleFlags{})
	f = DeriveStyle(elem("sub"), f)
	if f.SuperScript || !f.SubScript {
		t.Errorf("nested sub inside sup: %+v", f)
	}
	f = DeriveStyle(elem("sup"), f)
	if !f.SuperScript || f.SubScript {
		t.Errorf("sup again: %+v", f)
	}
}

func TestDeriveStyleAnchorColorOverride(t *testing.T) {
	got := DeriveStyle(elem("a", "style", "color: #00AA00"), docmodel.StyleFlags{})
	if got.Color != "00AA00" {
		t.Errorf("explicit anchor color ignored: %+v", got)
	}
}
